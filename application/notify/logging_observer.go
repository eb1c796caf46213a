package notify

import (
	"context"

	"go.uber.org/zap"
)

// LoggingObserver writes every notification it receives to the log
type LoggingObserver struct {
	name   string
	logger *zap.Logger
}

func NewLoggingObserver(name string, logger *zap.Logger) *LoggingObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingObserver{name: name, logger: logger}
}

func (o *LoggingObserver) Name() string { return o.name }

func (o *LoggingObserver) Update(_ context.Context, event Event) error {
	fields := []zap.Field{
		zap.String("observer", o.name),
		zap.String("event", event.Name),
	}
	if event.AggregateID != "" {
		fields = append(fields, zap.String("aggregate_id", event.AggregateID))
	}
	if event.TotalAmount != "" {
		fields = append(fields, zap.String("total_amount", event.TotalAmount))
	}
	o.logger.Info(o.name+" received notification: "+event.Message, fields...)
	return nil
}
