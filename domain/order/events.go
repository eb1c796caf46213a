package order

import (
	"fmt"
	"strings"
	"time"

	"storefront/domain/shared"
)

const (
	EventOrderCreated        = "order.created"
	EventOrderUpdated        = "order.updated"
	EventOrderProductsAdded  = "order.products_added"
	EventOrderProductRemoved = "order.product_removed"
	EventOrderDeleted        = "order.deleted"
)

type OrderCreatedEvent struct {
	orderID      string
	productCount int
	totalAmount  shared.Money
	occurredOn   time.Time
}

func NewOrderCreatedEvent(orderID string, productCount int, totalAmount shared.Money) *OrderCreatedEvent {
	return &OrderCreatedEvent{orderID: orderID, productCount: productCount, totalAmount: totalAmount, occurredOn: time.Now()}
}

func (e *OrderCreatedEvent) EventName() string         { return EventOrderCreated }
func (e *OrderCreatedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderCreatedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderCreatedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *OrderCreatedEvent) Summary() string {
	return fmt.Sprintf("Order created with ID: %s (%d products, total %s)", e.orderID, e.productCount, e.totalAmount)
}

type OrderUpdatedEvent struct {
	orderID     string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewOrderUpdatedEvent(orderID string, totalAmount shared.Money) *OrderUpdatedEvent {
	return &OrderUpdatedEvent{orderID: orderID, totalAmount: totalAmount, occurredOn: time.Now()}
}

func (e *OrderUpdatedEvent) EventName() string         { return EventOrderUpdated }
func (e *OrderUpdatedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderUpdatedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderUpdatedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *OrderUpdatedEvent) Summary() string {
	return fmt.Sprintf("Order updated with ID: %s (total %s)", e.orderID, e.totalAmount)
}

type OrderProductsAddedEvent struct {
	orderID     string
	productIDs  []string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewOrderProductsAddedEvent(orderID string, productIDs []string, totalAmount shared.Money) *OrderProductsAddedEvent {
	return &OrderProductsAddedEvent{orderID: orderID, productIDs: productIDs, totalAmount: totalAmount, occurredOn: time.Now()}
}

func (e *OrderProductsAddedEvent) EventName() string         { return EventOrderProductsAdded }
func (e *OrderProductsAddedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderProductsAddedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderProductsAddedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *OrderProductsAddedEvent) ProductIDs() []string      { return e.productIDs }
func (e *OrderProductsAddedEvent) Summary() string {
	return fmt.Sprintf("Products added to order %s: %s (total %s)", e.orderID, strings.Join(e.productIDs, ", "), e.totalAmount)
}

type OrderProductRemovedEvent struct {
	orderID     string
	productID   string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewOrderProductRemovedEvent(orderID, productID string, totalAmount shared.Money) *OrderProductRemovedEvent {
	return &OrderProductRemovedEvent{orderID: orderID, productID: productID, totalAmount: totalAmount, occurredOn: time.Now()}
}

func (e *OrderProductRemovedEvent) EventName() string         { return EventOrderProductRemoved }
func (e *OrderProductRemovedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderProductRemovedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderProductRemovedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *OrderProductRemovedEvent) Summary() string {
	return fmt.Sprintf("Product %s removed from order %s (total %s)", e.productID, e.orderID, e.totalAmount)
}

type OrderDeletedEvent struct {
	orderID     string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewOrderDeletedEvent(orderID string, totalAmount shared.Money) *OrderDeletedEvent {
	return &OrderDeletedEvent{orderID: orderID, totalAmount: totalAmount, occurredOn: time.Now()}
}

func (e *OrderDeletedEvent) EventName() string         { return EventOrderDeleted }
func (e *OrderDeletedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderDeletedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderDeletedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *OrderDeletedEvent) Summary() string {
	return fmt.Sprintf("Order deleted with ID: %s", e.orderID)
}
