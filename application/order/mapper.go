package order

import "storefront/domain/order"

func ToResponse(o *order.Order) *OrderResponse {
	if o == nil {
		return nil
	}

	products := o.Products()
	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = ProductResponse{
			ID:    p.ID(),
			Name:  p.Name(),
			Price: p.Price().String(),
		}
	}

	return &OrderResponse{
		ID:           o.ID(),
		Products:     items,
		ProductCount: len(items),
		TotalAmount:  o.TotalAmount().String(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
}

func ToResponses(orders []*order.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}
