/*
Package product Product subdomain

Product is its own aggregate root. Orders reference products by identity and
share them: one product may appear in many orders, and deleting an order never
deletes its products.
*/
package product

import (
	"fmt"
	"strings"
	"time"

	"storefront/domain/shared"

	"github.com/google/uuid"
)

// Product Product aggregate root
type Product struct {
	id        string
	name      string
	price     shared.Money
	orderIDs  []string // back-reference, populated by queries only
	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// New Create a new Product
// Name must be non-empty; price non-negative, in whole cents, at most MaxPrice
func New(name string, price shared.Money) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, price); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product ID: %w", err)
	}

	now := time.Now()
	p := &Product{
		id:        id.String(),
		name:      name,
		price:     price,
		createdAt: now,
		updatedAt: now,
	}
	p.events = append(p.events, NewProductCreatedEvent(p.id, p.name, p.price))
	return p, nil
}

// MaxPrice largest price a decimal(10,2) column holds
var MaxPrice = shared.MustParseMoney("99999999.99")

func validate(name string, price shared.Money) error {
	if name == "" {
		return NewInvalidProductError("name", "product name cannot be empty")
	}
	if price.IsNegative() {
		return NewInvalidProductError("price", "product price cannot be negative")
	}
	// totals are shown and stored with two decimals; finer prices would not add up
	if !price.IsWholeCents() {
		return NewInvalidProductError("price", "product price cannot have more than two decimal places")
	}
	if price.GreaterThan(MaxPrice) {
		return NewInvalidProductError("price", "product price cannot exceed "+MaxPrice.String())
	}
	return nil
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Product reconstruction data transfer object
// ⚠️ Note: only repository implementations should use this
type ReconstructionDTO struct {
	ID        string
	Name      string
	Price     shared.Money
	OrderIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO Reconstruct Product from storage
func RebuildFromDTO(dto ReconstructionDTO) *Product {
	orderIDs := make([]string, len(dto.OrderIDs))
	copy(orderIDs, dto.OrderIDs)
	return &Product{
		id:        dto.ID,
		name:      dto.Name,
		price:     dto.Price,
		orderIDs:  orderIDs,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

// ============================================================================
// Behavior
// ============================================================================

// Rename Change the product name
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validate(name, p.price); err != nil {
		return err
	}
	p.name = name
	p.touch()
	return nil
}

// ChangePrice Change the product price
// Orders holding this product pick the new price up on their next recompute
func (p *Product) ChangePrice(price shared.Money) error {
	if err := validate(p.name, price); err != nil {
		return err
	}
	p.price = price
	p.touch()
	return nil
}

// MarkDeleted Record the deletion event
func (p *Product) MarkDeleted() {
	p.events = append(p.events, NewProductDeletedEvent(p.id, p.name))
}

func (p *Product) touch() {
	p.updatedAt = time.Now()
	p.events = append(p.events, NewProductUpdatedEvent(p.id, p.name, p.price))
}

// ============================================================================
// Getters
// ============================================================================

func (p *Product) ID() string           { return p.id }
func (p *Product) Name() string         { return p.name }
func (p *Product) Price() shared.Money  { return p.price }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// OrderIDs Return copy of the orders referencing this product
func (p *Product) OrderIDs() []string {
	ids := make([]string, len(p.orderIDs))
	copy(ids, p.orderIDs)
	return ids
}

// PullEvents Get and clear recorded events
func (p *Product) PullEvents() []shared.DomainEvent {
	events := p.events
	p.events = nil
	return events
}

var _ shared.AggregateRoot = (*Product)(nil)
