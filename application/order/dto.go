package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName" validate:"required,max=255"`
	CustomerEmail string             `json:"customerEmail" validate:"required,email,max=255"`
	OrderItems    []OrderItemRequest `json:"orderItems" validate:"min=1,dive"`
}

// OrderItemRequest is one line of a new order. The unit price is taken from the product.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// UpdateOrderStatusRequest is the body of PATCH /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse is the read model of an order.
type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	OrderDate     time.Time           `json:"orderDate"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	OrderItems    []OrderItemResponse `json:"orderItems"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// OrderItemResponse is the read model of an order line.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// OrderPage is one page of orders.
type OrderPage struct {
	Items      []*OrderResponse
	Page       int
	Size       int
	Total      int64
	TotalPages int
}
