package order

import (
	"ordersvc/domain/order"
	"ordersvc/domain/shared"
)

func toLineRequests(items []OrderItemRequest) []order.LineRequest {
	lines := make([]order.LineRequest, len(items))
	for i, item := range items {
		lines[i] = order.LineRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			ID:          item.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			TotalPrice:  item.TotalPrice(),
		}
	}

	return &OrderResponse{
		ID:            o.ID(),
		CustomerName:  o.CustomerName(),
		CustomerEmail: o.CustomerEmail(),
		OrderDate:     o.OrderDate(),
		Status:        string(o.Status()),
		TotalAmount:   o.TotalAmount(),
		OrderItems:    items,
		UpdatedAt:     o.UpdatedAt(),
	}
}

func toOrderResponses(orders []*order.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = toOrderResponse(o)
	}
	return responses
}

func toOrderPage(p shared.Page[*order.Order]) *OrderPage {
	mapped := shared.MapPage(p, toOrderResponse)
	return &OrderPage{
		Items:      mapped.Items,
		Page:       mapped.Page,
		Size:       mapped.Size,
		Total:      mapped.Total,
		TotalPages: mapped.TotalPages(),
	}
}
