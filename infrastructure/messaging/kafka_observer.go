package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront/application/notify"
	"storefront/config"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the observer needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaObserver publishes notifications to a Kafka topic, keyed by aggregate id
// so that events of one order keep their order within a partition
type KafkaObserver struct {
	writer messageWriter
	topic  string
}

func NewKafkaObserver(writer messageWriter, topic string) *KafkaObserver {
	return &KafkaObserver{writer: writer, topic: topic}
}

// ParseBrokers splits a comma separated broker list
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewKafkaWriter 按配置创建 writer；未配置 broker 时返回错误
func NewKafkaWriter(cfg config.KafkaConfig) (*kafka.Writer, error) {
	brokers := ParseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}, nil
}

func (o *KafkaObserver) Name() string { return "kafka:" + o.topic }

func (o *KafkaObserver) Update(ctx context.Context, event notify.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := event.AggregateID
	if key == "" {
		key = event.Name
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	}
	if err := o.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write to %s: %w", o.topic, err)
	}
	return nil
}

func (o *KafkaObserver) Close() error {
	return o.writer.Close()
}

var _ notify.Observer = (*KafkaObserver)(nil)
