package po

import (
	"time"

	"storefront/domain/order"
	"storefront/domain/product"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// TotalAmount is a stored copy for reporting; aggregates recompute it on load.
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderProductPO many-to-many link between orders and products
type OrderProductPO struct {
	OrderID   string `gorm:"primaryKey;size:64"`
	ProductID string `gorm:"primaryKey;size:64;index"`
	Position  int    `gorm:"not null;default:0"`
}

// TableName Specify table name
func (OrderProductPO) TableName() string {
	return "order_products"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderProductPO) {
	orderPO := &OrderPO{
		ID:          o.ID(),
		TotalAmount: o.TotalAmount().Decimal(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}

	ids := o.ProductIDs()
	links := make([]OrderProductPO, len(ids))
	for i, id := range ids {
		links[i] = OrderProductPO{OrderID: o.ID(), ProductID: id, Position: i}
	}
	return orderPO, links
}

// ToDomain Convert persistence object to domain model, products in link order
func (po *OrderPO) ToDomain(products []*product.Product) *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:        po.ID,
		Products:  products,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
