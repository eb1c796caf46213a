package gormrepo

import (
	"context"
	"errors"
	"time"

	"storefront/config"

	"go.uber.org/zap"
)

// OutboxPublisher delivers one outbox row to the outside world
type OutboxPublisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    OutboxPublisher
	logger       *zap.Logger
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher OutboxPublisher,
	cfg config.WorkerConfig,
	logger *zap.Logger,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if publisher == nil {
		return nil, errors.New("outbox publisher is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("batch size must be positive")
	}
	if cfg.MaxRetries <= 0 {
		return nil, errors.New("max retries must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		logger:       logger.Named("outbox-worker"),
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxRetries:   cfg.MaxRetries,
	}, nil
}

// Run polls until ctx is done
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to batchSize pending events and returns how many were published
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			w.logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventType, event.Payload); err != nil {
			w.logger.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				w.logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			w.logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}
	return published, nil
}
