package gormrepo

import (
	"context"
	"fmt"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db          *gorm.DB
	aggregates  []shared.AggregateRoot
	outbox      *OutboxRepository
	retryConfig retry.Config
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		outbox:      NewOutboxRepository(db),
		retryConfig: retry.DefaultConfig,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs fn inside one database transaction:
//  1. begin and put the transaction into the context for repositories
//  2. run fn; any error rolls back
//  3. write events pulled from registered aggregates to the outbox in the same transaction
//  4. commit, then forget the registered aggregates
//
// Transient errors (deadlocks, lock timeouts, sqlite busy) retry the whole attempt.
// Events pulled by a rolled back attempt are written again when the same
// aggregate is registered on the retry.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	pulled := make(map[shared.AggregateRoot][]shared.DomainEvent)

	executeOnce := func(ctx context.Context) error {
		u.aggregates = u.aggregates[:0]

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		if err := u.saveEvents(txCtx, pulled); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save event to outbox: %w", err)
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	err := retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
	u.aggregates = nil
	return err
}

// saveEvents writes every event of the registered aggregates, including the
// ones pulled by earlier attempts of the same Execute
func (u *UnitOfWork) saveEvents(ctx context.Context, pulled map[shared.AggregateRoot][]shared.DomainEvent) error {
	seen := make(map[shared.AggregateRoot]bool, len(u.aggregates))
	for _, agg := range u.aggregates {
		if seen[agg] {
			continue
		}
		seen[agg] = true

		events := append(pulled[agg], agg.PullEvents()...)
		pulled[agg] = events
		for _, event := range events {
			if err := u.outbox.SaveEvent(ctx, event); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
