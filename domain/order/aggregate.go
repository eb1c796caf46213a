/*
Package order Order subdomain

Order is the aggregate root for a purchase composed of shared products
(many-to-many). Its total amount is derived: after every public mutation
TotalAmount equals the sum of the current products' prices.

Orders are assembled through Builder; repositories rebuild them through
RebuildFromDTO, which recomputes the total instead of trusting storage.
*/
package order

import (
	"fmt"
	"time"

	"storefront/domain/product"
	"storefront/domain/shared"

	"github.com/google/uuid"
)

// Order Order aggregate root
type Order struct {
	id          string
	products    []*product.Product
	totalAmount shared.Money
	createdAt   time.Time
	updatedAt   time.Time

	events []shared.DomainEvent
}

// newOrder creates an empty order; Builder is the only public factory
func newOrder() (*Order, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now()
	return &Order{
		id:          id.String(),
		totalAmount: shared.Zero(),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// There is no total field: the total is always derived from Products
// ⚠️ Note: only repository implementations should use this
type ReconstructionDTO struct {
	ID        string
	Products  []*product.Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from storage
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	o := &Order{
		id:        dto.ID,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
	for _, p := range dto.Products {
		if p != nil {
			o.appendProduct(p)
		}
	}
	o.totalAmount = o.sum()
	return o
}

// ============================================================================
// Behavior
// ============================================================================

// appendProduct adds p unless a product with the same identity is present.
// It does not recompute the total.
func (o *Order) appendProduct(p *product.Product) bool {
	if o.ContainsProduct(p.ID()) {
		return false
	}
	o.products = append(o.products, p)
	return true
}

// AddProducts merges products by identity and recomputes the total.
// Returns the number of products actually added.
func (o *Order) AddProducts(products ...*product.Product) (int, error) {
	for _, p := range products {
		if p == nil {
			return 0, NewNilProductError()
		}
	}

	added := make([]string, 0, len(products))
	for _, p := range products {
		if o.appendProduct(p) {
			added = append(added, p.ID())
		}
	}
	o.RecalculateTotal()

	if len(added) > 0 {
		o.updatedAt = time.Now()
		o.events = append(o.events, NewOrderProductsAddedEvent(o.id, added, o.totalAmount))
	}
	return len(added), nil
}

// RemoveProduct removes the product with the given identity and recomputes the total
func (o *Order) RemoveProduct(productID string) error {
	for i, p := range o.products {
		if p.ID() == productID {
			o.products = append(o.products[:i], o.products[i+1:]...)
			o.RecalculateTotal()
			o.updatedAt = time.Now()
			o.events = append(o.events, NewOrderProductRemovedEvent(o.id, productID, o.totalAmount))
			return nil
		}
	}
	return NewProductNotInOrderError(o.id, productID)
}

// RecalculateTotal sets TotalAmount to the sum of the current product prices
func (o *Order) RecalculateTotal() {
	o.totalAmount = o.sum()
}

func (o *Order) sum() shared.Money {
	prices := make([]shared.Money, len(o.products))
	for i, p := range o.products {
		prices[i] = p.Price()
	}
	return shared.Sum(prices...)
}

// MarkUpdated recomputes the total and records order.updated
func (o *Order) MarkUpdated() {
	o.RecalculateTotal()
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderUpdatedEvent(o.id, o.totalAmount))
}

// MarkDeleted records order.deleted; products are never touched
func (o *Order) MarkDeleted() {
	o.events = append(o.events, NewOrderDeletedEvent(o.id, o.totalAmount))
}

func (o *Order) markCreated() {
	o.events = append(o.events, NewOrderCreatedEvent(o.id, len(o.products), o.totalAmount))
}

// ContainsProduct reports whether a product with this identity is in the order
func (o *Order) ContainsProduct(productID string) bool {
	for _, p := range o.products {
		if p.ID() == productID {
			return true
		}
	}
	return false
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string                { return o.id }
func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }

// Products Return copy of the product list, in insertion order
func (o *Order) Products() []*product.Product {
	products := make([]*product.Product, len(o.products))
	copy(products, o.products)
	return products
}

// ProductIDs Return product identities in insertion order
func (o *Order) ProductIDs() []string {
	ids := make([]string, len(o.products))
	for i, p := range o.products {
		ids[i] = p.ID()
	}
	return ids
}

// PullEvents Get and clear the aggregate's event list
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

// Compile-time check that Order implements AggregateRoot interface
var _ shared.AggregateRoot = (*Order)(nil)
