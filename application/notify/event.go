package notify

import (
	"time"

	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/domain/shared"
)

// Event is the single payload every observer receives
type Event struct {
	Name        string    `json:"name"`
	AggregateID string    `json:"aggregate_id"`
	Message     string    `json:"message"`
	TotalAmount string    `json:"total_amount,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Message wraps a free-form text notification
func Message(text string) Event {
	return Event{Name: "message", Message: text, OccurredAt: time.Now()}
}

// FromDomainEvent converts a recorded domain event into a notification
func FromDomainEvent(e shared.DomainEvent) Event {
	ev := Event{
		Name:        e.EventName(),
		AggregateID: e.GetAggregateID(),
		Message:     e.Summary(),
		OccurredAt:  e.OccurredOn(),
	}
	if t, ok := e.(interface{ TotalAmount() shared.Money }); ok {
		ev.TotalAmount = t.TotalAmount().String()
	}
	return ev
}

func orderEvent(name string, o *order.Order, message string) Event {
	return Event{
		Name:        name,
		AggregateID: o.ID(),
		Message:     message,
		TotalAmount: o.TotalAmount().String(),
		OccurredAt:  time.Now(),
	}
}

func OrderCreated(o *order.Order) Event {
	return orderEvent(order.EventOrderCreated, o, "Order created with ID: "+o.ID())
}

func OrderUpdated(o *order.Order) Event {
	return orderEvent(order.EventOrderUpdated, o, "Order updated with ID: "+o.ID())
}

func OrderDeleted(o *order.Order) Event {
	return orderEvent(order.EventOrderDeleted, o, "Order deleted with ID: "+o.ID())
}

func ProductsAdded(o *order.Order) Event {
	return orderEvent(order.EventOrderProductsAdded, o, "Products added to order with ID: "+o.ID())
}

func ProductCreated(p *product.Product) Event {
	return productEvent(product.EventProductCreated, p, "Product created with ID: "+p.ID())
}

func ProductRemoved(o *order.Order, productID string) Event {
	return orderEvent(order.EventOrderProductRemoved, o, "Product "+productID+" removed from order with ID: "+o.ID())
}

func productEvent(name string, p *product.Product, message string) Event {
	return Event{
		Name:        name,
		AggregateID: p.ID(),
		Message:     message,
		OccurredAt:  time.Now(),
	}
}

func ProductUpdated(p *product.Product) Event {
	return productEvent(product.EventProductUpdated, p, "Product updated with ID: "+p.ID())
}

func ProductDeleted(p *product.Product) Event {
	return productEvent(product.EventProductDeleted, p, "Product deleted with ID: "+p.ID())
}
