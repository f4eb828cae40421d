/*
Package order Order subdomain

Order is the aggregate root of a placed order and its line items. Items and
the total amount are fixed at creation; afterwards only the status changes,
through the transition rules in this package. Stock side effects of a
transition are carried out by LifecycleService.
*/
package order

import (
	"fmt"
	"strings"
	"time"

	"ordersvc/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order aggregate root
type Order struct {
	shared.EventRecorder

	id            string
	customerName  string
	customerEmail string
	orderDate     time.Time
	status        Status
	totalAmount   decimal.Decimal
	items         []OrderItem
	version       int // Optimistic lock version number
	updatedAt     time.Time
}

// OrderItem is an immutable priced line of an order.
type OrderItem struct {
	id          string
	orderID     string
	productID   string
	productName string
	quantity    int
	unitPrice   decimal.Decimal
	totalPrice  decimal.Decimal
}

// NewOrderItem prices a line: totalPrice = unitPrice × quantity, exact decimal.
func NewOrderItem(productID, productName string, quantity int, unitPrice decimal.Decimal) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, shared.NewValidationError("order", "quantity", "Quantity must be at least 1")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return OrderItem{}, fmt.Errorf("failed to generate order item ID: %w", err)
	}

	return OrderItem{
		id:          id.String(),
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
		totalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// NewOrder creates a PENDING order from assembled items.
// total must equal the sum of item totals.
func NewOrder(customerName, customerEmail string, items []OrderItem, total decimal.Decimal) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewValidationError("order", "customerName", "Customer name cannot be empty")
	}
	if strings.TrimSpace(customerEmail) == "" {
		return nil, shared.NewValidationError("order", "customerEmail", "Customer email cannot be empty")
	}
	if len(items) == 0 {
		return nil, NewEmptyOrderError()
	}

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.totalPrice)
	}
	if !sum.Equal(total) {
		return nil, fmt.Errorf("order total %s does not match item totals %s", total, sum)
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	owned := make([]OrderItem, len(items))
	for i, item := range items {
		item.orderID = orderID.String()
		owned[i] = item
	}

	now := time.Now()
	o := &Order{
		id:            orderID.String(),
		customerName:  customerName,
		customerEmail: customerEmail,
		orderDate:     now,
		status:        StatusPending,
		totalAmount:   total,
		items:         owned,
		updatedAt:     now,
	}
	o.Record(NewOrderPlacedEvent(o.id, customerEmail, total, len(owned)))
	return o, nil
}

// ============================================================================
// Status transitions
// ============================================================================

// CheckTransition applies the update guard: any target other than CANCELLED
// needs the order to be PENDING or CONFIRMED.
func (o *Order) CheckTransition(newStatus Status) error {
	if !newStatus.IsValid() {
		return NewUnknownStatusError(string(newStatus))
	}
	if newStatus != StatusCancelled && o.status != StatusPending && o.status != StatusConfirmed {
		return NewInvalidOrderStatusError(o.id, o.status, newStatus)
	}
	return nil
}

// CheckCancel rejects cancelling a delivered order.
func (o *Order) CheckCancel() error {
	if o.status == StatusDelivered {
		return NewCannotCancelDeliveredError(o.id)
	}
	return nil
}

// StockEffectOf returns what moving to newStatus does to product stock.
func (o *Order) StockEffectOf(newStatus Status) StockEffect {
	switch {
	case o.status == StatusPending && newStatus == StatusConfirmed:
		return StockDebit
	case newStatus == StatusCancelled && (o.status == StatusConfirmed || o.status == StatusShipped):
		return StockCredit
	default:
		return StockNone
	}
}

// ApplyStatus sets the status and records the matching event.
// Callers must have passed CheckTransition or CheckCancel first.
func (o *Order) ApplyStatus(newStatus Status) {
	previous := o.status
	o.status = newStatus
	o.updatedAt = time.Now()

	switch {
	case newStatus == StatusConfirmed && previous == StatusPending:
		o.Record(NewOrderConfirmedEvent(o.id, o.totalAmount))
	case newStatus == StatusCancelled:
		o.Record(NewOrderCancelledEvent(o.id, previous))
	default:
		o.Record(NewOrderStatusChangedEvent(o.id, previous, newStatus))
	}
}

// IncrementVersionForSave is called by repositories after a successful write.
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ============================================================================
// Reconstruction (repositories only)
// ============================================================================

type ReconstructionDTO struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	OrderDate     time.Time
	Status        Status
	TotalAmount   decimal.Decimal
	Items         []OrderItem
	Version       int
	UpdatedAt     time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]OrderItem, len(dto.Items))
	copy(items, dto.Items)
	return &Order{
		id:            dto.ID,
		customerName:  dto.CustomerName,
		customerEmail: dto.CustomerEmail,
		orderDate:     dto.OrderDate,
		status:        dto.Status,
		totalAmount:   dto.TotalAmount,
		items:         items,
		version:       dto.Version,
		updatedAt:     dto.UpdatedAt,
	}
}

// ToDTO snapshots the order, used by the in-memory store to copy state.
func (o *Order) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:            o.id,
		CustomerName:  o.customerName,
		CustomerEmail: o.customerEmail,
		OrderDate:     o.orderDate,
		Status:        o.status,
		TotalAmount:   o.totalAmount,
		Items:         o.Items(),
		Version:       o.version,
		UpdatedAt:     o.updatedAt,
	}
}

type ItemReconstructionDTO struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

func RebuildItemFromDTO(dto ItemReconstructionDTO) OrderItem {
	return OrderItem{
		id:          dto.ID,
		orderID:     dto.OrderID,
		productID:   dto.ProductID,
		productName: dto.ProductName,
		quantity:    dto.Quantity,
		unitPrice:   dto.UnitPrice,
		totalPrice:  dto.TotalPrice,
	}
}

func (o *Order) ID() string            { return o.id }
func (o *Order) CustomerName() string  { return o.customerName }
func (o *Order) CustomerEmail() string { return o.customerEmail }
func (o *Order) OrderDate() time.Time  { return o.orderDate }
func (o *Order) Status() Status        { return o.status }
func (o *Order) Version() int          { return o.version }
func (o *Order) UpdatedAt() time.Time  { return o.updatedAt }

// TotalAmount is fixed at creation and never recomputed.
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }

// Items returns a copy of the order items, in request order.
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

func (item OrderItem) ID() string                  { return item.id }
func (item OrderItem) OrderID() string             { return item.orderID }
func (item OrderItem) ProductID() string           { return item.productID }
func (item OrderItem) ProductName() string         { return item.productName }
func (item OrderItem) Quantity() int               { return item.quantity }
func (item OrderItem) UnitPrice() decimal.Decimal  { return item.unitPrice }
func (item OrderItem) TotalPrice() decimal.Decimal { return item.totalPrice }

var _ shared.AggregateRoot = (*Order)(nil)
