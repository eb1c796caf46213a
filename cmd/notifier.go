package cmd

import (
	"context"
	"errors"
	"fmt"

	"storefront/api/health"
	"storefront/application/notify"
	"storefront/config"
	"storefront/infrastructure/messaging"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"go.uber.org/zap"
)

// Notifications notifier 及其外部 sink 的生命周期
type Notifications struct {
	Notifier *notify.Notifier
	checkers map[string]health.Checker
	closers  []func() error
}

// HealthChecks returns dependency checks for the attached sinks
func (n *Notifications) HealthChecks() map[string]health.Checker {
	return n.checkers
}

// Close closes every external sink
func (n *Notifications) Close() error {
	var errs []error
	for _, c := range n.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewNotifications builds a notifier from the notifier config.
// withSinks attaches the redis and kafka observers; it is set only where no
// outbox worker publishes the same events.
func NewNotifications(ctx context.Context, cfg *config.Config, m *metrics.Metrics, withSinks bool) (*Notifications, error) {
	n := &Notifications{
		Notifier: notify.NewNotifier(logger.Named("notifier")),
		checkers: map[string]health.Checker{},
	}

	if cfg.Notifier.Logging {
		n.Notifier.Attach(notify.NewLoggingObserver("log", logger.Named("notifications")))
	}
	if m != nil {
		n.Notifier.Attach(messaging.NewMetricsObserver(m))
	}
	if !withSinks {
		return n, nil
	}

	if cfg.Notifier.Redis.Enabled {
		client, err := messaging.NewRedisClient(ctx, cfg.Notifier.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		n.Notifier.Attach(messaging.NewRedisObserver(client, cfg.Notifier.Redis.Channel))
		n.checkers["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		n.closers = append(n.closers, client.Close)
		logger.Info("Redis notification sink attached", zap.String("addr", cfg.Notifier.Redis.Addr))
	}

	if cfg.Notifier.Kafka.Enabled {
		writer, err := messaging.NewKafkaWriter(cfg.Notifier.Kafka)
		if err != nil {
			_ = n.Close()
			return nil, fmt.Errorf("failed to create kafka writer: %w", err)
		}
		observer := messaging.NewKafkaObserver(writer, cfg.Notifier.Kafka.Topic)
		n.Notifier.Attach(observer)
		n.closers = append(n.closers, observer.Close)
		logger.Info("Kafka notification sink attached", zap.String("topic", cfg.Notifier.Kafka.Topic))
	}

	return n, nil
}
