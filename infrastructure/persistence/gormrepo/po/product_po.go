package po

import (
	"time"

	"storefront/domain/product"
	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// ProductPO Product persistence object
// Note: Only used for database mapping, does not contain any business logic
type ProductPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "products"
}

// FromProductDomain Convert domain model to persistence object
func FromProductDomain(p *product.Product) *ProductPO {
	return &ProductPO{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price().Decimal(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// ToDomain Convert persistence object to domain model
func (po *ProductPO) ToDomain(orderIDs []string) *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:        po.ID,
		Name:      po.Name,
		Price:     shared.NewMoney(po.Price),
		OrderIDs:  orderIDs,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
