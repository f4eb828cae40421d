package product

import (
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
)

func toAttributes(req ProductRequest, active bool) product.Attributes {
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return product.Attributes{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    *req.Stock,
		Category: req.Category,
		Active:   active,
	}
}

func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price(),
		Stock:     p.Stock(),
		Category:  p.Category(),
		IsActive:  p.IsActive(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toProductPage(p shared.Page[*product.Product]) *ProductPage {
	mapped := shared.MapPage(p, toProductResponse)
	return &ProductPage{
		Items:      mapped.Items,
		Page:       mapped.Page,
		Size:       mapped.Size,
		Total:      mapped.Total,
		TotalPages: mapped.TotalPages(),
	}
}
