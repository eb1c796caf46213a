package shared

import (
	"context"
	"fmt"
	"time"
)

// DomainEvent 领域事件
// Summary 返回人类可读的描述，供通知与日志使用
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
	Summary() string
}

// EventDispatcher 工作单元提交后分发已取出的领域事件
type EventDispatcher interface {
	Dispatch(ctx context.Context, event DomainEvent) error
}

// DispatcherFunc 函数适配器
type DispatcherFunc func(ctx context.Context, event DomainEvent) error

func (f DispatcherFunc) Dispatch(ctx context.Context, event DomainEvent) error {
	return f(ctx, event)
}

// ValidateEvent 校验事件必填字段
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
