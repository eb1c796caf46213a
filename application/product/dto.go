package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest 创建商品入参，price 接受 "9.99" 或 9.99
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// UpdateProductRequest 更新商品入参
type UpdateProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// ProductResponse 商品返回模型
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	OrderIDs  []string  `json:"order_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
