package order

import "time"

// CreateOrderRequest 创建订单入参，商品按 ID 引用
type CreateOrderRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// UpdateOrderRequest 整体替换订单商品集合
type UpdateOrderRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// AddProductsRequest 向已有订单追加商品
type AddProductsRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required,min=1"`
}

// OrderResponse 订单返回模型
type OrderResponse struct {
	ID           string            `json:"id"`
	Products     []ProductResponse `json:"products"`
	ProductCount int               `json:"product_count"`
	TotalAmount  string            `json:"total_amount"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ProductResponse 订单内的商品摘要
type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}
