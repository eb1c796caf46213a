package po

import (
	"encoding/json"
	"time"

	"storefront/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`          // e.g., "order.created"
	Payload     string    `gorm:"type:text;not null"`               // JSON serialized event data
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// eventPayload is the wire form consumed by the notification pipeline
type eventPayload struct {
	Name        string    `json:"name"`
	AggregateID string    `json:"aggregate_id"`
	Message     string    `json:"message"`
	TotalAmount string    `json:"total_amount,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload := eventPayload{
		Name:        event.EventName(),
		AggregateID: event.GetAggregateID(),
		Message:     event.Summary(),
		OccurredAt:  event.OccurredOn(),
	}
	if t, ok := event.(interface{ TotalAmount() shared.Money }); ok {
		payload.TotalAmount = t.TotalAmount().String()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     string(data),
		Status:      string(EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
