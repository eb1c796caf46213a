package product

import "storefront/domain/product"

func ToResponse(p *product.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price().String(),
		OrderIDs:  p.OrderIDs(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func ToResponses(products []*product.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}
	return out
}
