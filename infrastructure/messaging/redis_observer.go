/*
Package messaging 通知的外部投递端

RedisObserver 与 KafkaObserver 都实现 notify.Observer，
以 notify.Event 的 JSON 形式对外发布。
*/
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/application/notify"
	"storefront/config"

	"github.com/redis/go-redis/v9"
)

// redisPublisher is the part of *redis.Client the observer needs
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisObserver publishes notifications to a Redis pub/sub channel
type RedisObserver struct {
	client  redisPublisher
	channel string
}

func NewRedisObserver(client redisPublisher, channel string) *RedisObserver {
	if channel == "" {
		channel = "storefront.notifications"
	}
	return &RedisObserver{client: client, channel: channel}
}

// NewRedisClient 创建客户端并检查连通性
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (o *RedisObserver) Name() string { return "redis:" + o.channel }

func (o *RedisObserver) Update(ctx context.Context, event notify.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := o.client.Publish(ctx, o.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", o.channel, err)
	}
	return nil
}

var _ notify.Observer = (*RedisObserver)(nil)
