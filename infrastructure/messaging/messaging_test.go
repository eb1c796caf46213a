package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"storefront/application/notify"
	"storefront/config"
	"storefront/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() notify.Event {
	return notify.Event{
		Name:        "order.created",
		AggregateID: "o-1",
		Message:     "Order created with ID: o-1",
		TotalAmount: "14.99",
		OccurredAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

type fakeRedis struct {
	channel string
	payload []byte
	err     error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisObserverPublishesJSON(t *testing.T) {
	fake := &fakeRedis{}
	obs := NewRedisObserver(fake, "orders")

	require.NoError(t, obs.Update(context.Background(), sampleEvent()))
	assert.Equal(t, "orders", fake.channel)
	assert.Equal(t, "redis:orders", obs.Name())

	var got notify.Event
	require.NoError(t, json.Unmarshal(fake.payload, &got))
	assert.Equal(t, sampleEvent(), got)
}

func TestRedisObserverSurfacesErrors(t *testing.T) {
	obs := NewRedisObserver(&fakeRedis{err: errors.New("connection refused")}, "")
	err := obs.Update(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "storefront.notifications")
}

func TestRedisObserverLive(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, config.RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	sub := client.Subscribe(ctx, "storefront.test")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, NewRedisObserver(client, "storefront.test").Update(ctx, sampleEvent()))

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, `"aggregate_id":"o-1"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaObserverKeysByAggregate(t *testing.T) {
	w := &fakeWriter{}
	obs := NewKafkaObserver(w, "orders")

	require.NoError(t, obs.Update(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))
	assert.Equal(t, "order.created", string(w.msgs[0].Headers[0].Value))

	var got notify.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "14.99", got.TotalAmount)

	require.NoError(t, obs.Update(context.Background(), notify.Message("hello")))
	assert.Equal(t, "message", string(w.msgs[1].Key))

	require.NoError(t, obs.Close())
	assert.True(t, w.closed)
}

func TestKafkaObserverSurfacesErrors(t *testing.T) {
	obs := NewKafkaObserver(&fakeWriter{err: errors.New("leader not available")}, "orders")
	assert.ErrorContains(t, obs.Update(context.Background(), sampleEvent()), "kafka write to orders")
}

func TestNewKafkaWriter(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))

	_, err := NewKafkaWriter(config.KafkaConfig{Topic: "orders"})
	assert.Error(t, err)
	_, err = NewKafkaWriter(config.KafkaConfig{Brokers: "a:9092"})
	assert.Error(t, err)

	w, err := NewKafkaWriter(config.KafkaConfig{Brokers: "a:9092", Topic: "orders"})
	require.NoError(t, err)
	assert.Equal(t, "orders", w.Topic)
}

func TestObserversPlugIntoNotifier(t *testing.T) {
	w := &fakeWriter{}
	fake := &fakeRedis{}
	n := notify.NewNotifier(nil)
	n.Attach(NewKafkaObserver(w, "orders"))
	n.Attach(NewRedisObserver(fake, "orders"))

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))
	assert.Len(t, w.msgs, 1)
	assert.NotEmpty(t, fake.payload)
}

func TestMetricsObserverCountsByEvent(t *testing.T) {
	m := metrics.New("test")
	obs := NewMetricsObserver(m)

	require.NoError(t, obs.Update(context.Background(), sampleEvent()))
	require.NoError(t, obs.Update(context.Background(), sampleEvent()))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("order.created")))
}
