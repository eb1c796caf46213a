package gormrepo

import (
	"context"

	"storefront/infrastructure/persistence"

	"gorm.io/gorm"
)

// conn returns the transaction from context if available, otherwise a new session
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// inTx runs fn in the context transaction, or in a new one when called standalone
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}
