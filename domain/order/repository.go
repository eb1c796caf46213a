package order

import "context"

// Repository Order write-side port
//
// Add and Update reconcile the referenced products: products absent from
// storage are inserted, products already stored are updated in place and
// never inserted a second time. Changes become durable when the surrounding
// UnitOfWork commits.
type Repository interface {
	Add(ctx context.Context, o *Order) error
	// Update returns ErrOrderNotFound if the order was never stored
	Update(ctx context.Context, o *Order) error
	// Delete removes the order and its product associations; products stay
	Delete(ctx context.Context, o *Order) error
}

// Queries Order read-side port
// Every call returns freshly built aggregates with recomputed totals
type Queries interface {
	GetAll(ctx context.Context) ([]*Order, error)
	// GetByID returns ErrOrderNotFound when absent
	GetByID(ctx context.Context, id string) (*Order, error)
}
