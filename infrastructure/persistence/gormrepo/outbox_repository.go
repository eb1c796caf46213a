package gormrepo

import (
	"context"
	"fmt"
	"time"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence/gormrepo/po"

	"gorm.io/gorm"
)

// OutboxRepository 事务性发件箱
// 领域事件与业务数据在同一事务内落库，由 OutboxWorker 异步投递
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// SaveEvent Save domain event to outbox table
// Uses transaction from context when called within UoW.Execute()
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		outboxPO, err := po.FromDomainEvent(event)
		if err != nil {
			return fmt.Errorf("failed to convert domain event: %w", err)
		}
		if err := tx.Create(outboxPO).Error; err != nil {
			return fmt.Errorf("failed to save event to outbox: %w", err)
		}
		return nil
	})
}

// GetPendingEvents oldest first
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := conn(ctx, r.db).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing claims a pending event; fails if another worker got it first
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(po.EventStatusProcessing),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     string(po.EventStatusPublished),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed 增加重试次数；未达上限时回到 PENDING 等待下一轮
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	db := conn(ctx, r.db)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	retryCount := event.RetryCount + 1
	status := string(po.EventStatusFailed)
	if retryCount < maxRetries {
		status = string(po.EventStatusPending)
	}

	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":      status,
			"retry_count": retryCount,
			"updated_at":  time.Now(),
		}).Error
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
