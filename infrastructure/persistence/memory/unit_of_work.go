package memory

import (
	"context"

	"storefront/domain/shared"

	"go.uber.org/zap"
)

// UnitOfWork in-memory unit of work
// Work runs under the store's transaction lock; a failed work function
// restores the store to its state before Execute.
type UnitOfWork struct {
	store      *Store
	dispatcher shared.EventDispatcher
	logger     *zap.Logger
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(store *Store, dispatcher shared.EventDispatcher, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWork{store: store, dispatcher: dispatcher, logger: logger}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	events, err := u.commit(ctx, fn)
	if err != nil {
		return err
	}

	for _, event := range events {
		u.logger.Debug("Event committed",
			zap.String("event", event.EventName()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
		if u.dispatcher == nil {
			continue
		}
		if err := u.dispatcher.Dispatch(ctx, event); err != nil {
			u.logger.Warn("Event dispatch failed", zap.String("event", event.EventName()), zap.Error(err))
		}
	}
	return nil
}

func (u *UnitOfWork) commit(ctx context.Context, fn func(ctx context.Context) error) ([]shared.DomainEvent, error) {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	u.aggregates = nil
	snap := u.store.snapshot()

	if err := fn(ctx); err != nil {
		u.store.restore(snap)
		u.aggregates = nil
		return nil, err
	}

	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	u.aggregates = nil
	return events, nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory creates one UnitOfWork per use case call
type UnitOfWorkFactory struct {
	store      *Store
	dispatcher shared.EventDispatcher
	logger     *zap.Logger
}

func NewUnitOfWorkFactory(store *Store, dispatcher shared.EventDispatcher, logger *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, dispatcher: dispatcher, logger: logger}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.dispatcher, f.logger)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
