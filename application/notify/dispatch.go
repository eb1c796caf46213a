package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/domain/shared"
)

// Dispatch lets a Notifier receive domain events pulled by a unit of work
func (n *Notifier) Dispatch(ctx context.Context, event shared.DomainEvent) error {
	return n.Notify(ctx, FromDomainEvent(event))
}

var _ shared.EventDispatcher = (*Notifier)(nil)

// OutboxPublisher feeds outbox rows through a Notifier.
// The payload is the JSON form of Event.
type OutboxPublisher struct {
	notifier *Notifier
}

func NewOutboxPublisher(notifier *Notifier) *OutboxPublisher {
	return &OutboxPublisher{notifier: notifier}
}

func (p *OutboxPublisher) Publish(ctx context.Context, eventType, payload string) error {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("decode outbox payload for %s: %w", eventType, err)
	}
	if event.Name == "" {
		event.Name = eventType
	}
	return p.notifier.Notify(ctx, event)
}
