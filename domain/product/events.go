package product

import (
	"fmt"
	"time"

	"storefront/domain/shared"
)

const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

type ProductCreatedEvent struct {
	productID  string
	name       string
	price      shared.Money
	occurredOn time.Time
}

func NewProductCreatedEvent(productID, name string, price shared.Money) *ProductCreatedEvent {
	return &ProductCreatedEvent{productID: productID, name: name, price: price, occurredOn: time.Now()}
}

func (e *ProductCreatedEvent) EventName() string      { return EventProductCreated }
func (e *ProductCreatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ProductCreatedEvent) GetAggregateID() string { return e.productID }
func (e *ProductCreatedEvent) Price() shared.Money    { return e.price }
func (e *ProductCreatedEvent) Summary() string {
	return fmt.Sprintf("Product created with ID: %s (%s, %s)", e.productID, e.name, e.price)
}

type ProductUpdatedEvent struct {
	productID  string
	name       string
	price      shared.Money
	occurredOn time.Time
}

func NewProductUpdatedEvent(productID, name string, price shared.Money) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{productID: productID, name: name, price: price, occurredOn: time.Now()}
}

func (e *ProductUpdatedEvent) EventName() string      { return EventProductUpdated }
func (e *ProductUpdatedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ProductUpdatedEvent) GetAggregateID() string { return e.productID }
func (e *ProductUpdatedEvent) Price() shared.Money    { return e.price }
func (e *ProductUpdatedEvent) Summary() string {
	return fmt.Sprintf("Product updated with ID: %s (%s, %s)", e.productID, e.name, e.price)
}

type ProductDeletedEvent struct {
	productID  string
	name       string
	occurredOn time.Time
}

func NewProductDeletedEvent(productID, name string) *ProductDeletedEvent {
	return &ProductDeletedEvent{productID: productID, name: name, occurredOn: time.Now()}
}

func (e *ProductDeletedEvent) EventName() string      { return EventProductDeleted }
func (e *ProductDeletedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ProductDeletedEvent) GetAggregateID() string { return e.productID }
func (e *ProductDeletedEvent) Summary() string {
	return fmt.Sprintf("Product deleted with ID: %s (%s)", e.productID, e.name)
}
