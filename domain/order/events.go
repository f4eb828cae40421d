package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	orderID       string
	customerEmail string
	totalAmount   decimal.Decimal
	itemCount     int
	occurredOn    time.Time
}

func NewOrderPlacedEvent(orderID, customerEmail string, totalAmount decimal.Decimal, itemCount int) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		orderID:       orderID,
		customerEmail: customerEmail,
		totalAmount:   totalAmount,
		itemCount:     itemCount,
		occurredOn:    time.Now(),
	}
}

func (e *OrderPlacedEvent) EventName() string            { return "order.placed" }
func (e *OrderPlacedEvent) OccurredOn() time.Time        { return e.occurredOn }
func (e *OrderPlacedEvent) GetAggregateID() string       { return e.orderID }
func (e *OrderPlacedEvent) CustomerEmail() string        { return e.customerEmail }
func (e *OrderPlacedEvent) TotalAmount() decimal.Decimal { return e.totalAmount }

func (e *OrderPlacedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":       e.orderID,
		"customer_email": e.customerEmail,
		"total_amount":   e.totalAmount.String(),
		"item_count":     e.itemCount,
	}
}

type OrderConfirmedEvent struct {
	orderID     string
	totalAmount decimal.Decimal
	occurredOn  time.Time
}

func NewOrderConfirmedEvent(orderID string, totalAmount decimal.Decimal) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		orderID:     orderID,
		totalAmount: totalAmount,
		occurredOn:  time.Now(),
	}
}

func (e *OrderConfirmedEvent) EventName() string      { return "order.confirmed" }
func (e *OrderConfirmedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderConfirmedEvent) GetAggregateID() string { return e.orderID }

func (e *OrderConfirmedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":     e.orderID,
		"total_amount": e.totalAmount.String(),
	}
}

// OrderStatusChangedEvent covers transitions without a dedicated event.
type OrderStatusChangedEvent struct {
	orderID    string
	from       Status
	to         Status
	occurredOn time.Time
}

func NewOrderStatusChangedEvent(orderID string, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		orderID:    orderID,
		from:       from,
		to:         to,
		occurredOn: time.Now(),
	}
}

func (e *OrderStatusChangedEvent) EventName() string      { return "order.status_changed" }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderStatusChangedEvent) From() Status           { return e.from }
func (e *OrderStatusChangedEvent) To() Status             { return e.to }

func (e *OrderStatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id": e.orderID,
		"from":     string(e.from),
		"to":       string(e.to),
	}
}

type OrderCancelledEvent struct {
	orderID    string
	from       Status
	occurredOn time.Time
}

func NewOrderCancelledEvent(orderID string, from Status) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		orderID:    orderID,
		from:       from,
		occurredOn: time.Now(),
	}
}

func (e *OrderCancelledEvent) EventName() string      { return "order.cancelled" }
func (e *OrderCancelledEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderCancelledEvent) GetAggregateID() string { return e.orderID }
func (e *OrderCancelledEvent) From() Status           { return e.from }

// Restocked reports whether cancelling returned stock.
func (e *OrderCancelledEvent) Restocked() bool {
	return e.from == StatusConfirmed || e.from == StatusShipped
}

func (e *OrderCancelledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"order_id":  e.orderID,
		"from":      string(e.from),
		"restocked": e.Restocked(),
	}
}
