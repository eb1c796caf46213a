package product

import "context"

// Repository Product write-side port
// Changes become durable when the surrounding UnitOfWork commits
type Repository interface {
	Add(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	// Delete removes the product and its order associations; orders stay
	Delete(ctx context.Context, p *Product) error
}

// Queries Product read-side port
// Every call returns freshly built aggregates
type Queries interface {
	GetAll(ctx context.Context) ([]*Product, error)
	// GetByID returns ErrProductNotFound when absent
	GetByID(ctx context.Context, id string) (*Product, error)
}
