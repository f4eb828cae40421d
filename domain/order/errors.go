// Error constructors capture the stack with shared.CaptureStack(3), so it
// starts at the caller of NewXxxError.

package order

import (
	"errors"
	"fmt"
	"strings"

	"ordersvc/domain/shared"
)

var (
	// ErrOrderNotFound the order does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidOrderStatus the current status does not allow the transition
	ErrInvalidOrderStatus = errors.New("invalid order status")

	// ErrInvalidOrder duplicate products or no items
	ErrInvalidOrder = errors.New("invalid order")

	// ErrConcurrentModification optimistic lock conflict, the caller should retry
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")
)

func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		message:  "Order with ID " + orderID + " not found",
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		message:  "order " + orderID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// InvalidStatusError carries the current and attempted statuses.
type InvalidStatusError struct {
	OrderID   string
	Current   Status
	Attempted Status
	message   string
	stack     []uintptr
}

func NewInvalidOrderStatusError(orderID string, current, attempted Status) error {
	return &InvalidStatusError{
		OrderID:   orderID,
		Current:   current,
		Attempted: attempted,
		message: fmt.Sprintf("Order status can only be changed from PENDING or CONFIRMED. Current status: %s, attempted: %s",
			current, attempted),
		stack: shared.CaptureStack(3),
	}
}

func NewCannotCancelDeliveredError(orderID string) error {
	return &InvalidStatusError{
		OrderID:   orderID,
		Current:   StatusDelivered,
		Attempted: StatusCancelled,
		message:   "Cannot cancel a delivered order.",
		stack:     shared.CaptureStack(3),
	}
}

func (e *InvalidStatusError) Error() string   { return e.message }
func (e *InvalidStatusError) Unwrap() error   { return ErrInvalidOrderStatus }
func (e *InvalidStatusError) Stack() []string { return shared.FormatStack(e.stack) }

func NewDuplicateProductError(productID string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		field:    "orderItems",
		message:  "Product with ID " + productID + " already exists in this order.",
		stack:    shared.CaptureStack(3),
	}
}

func NewEmptyOrderError() error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		field:    "orderItems",
		message:  "Order must contain at least one item",
		stack:    shared.CaptureStack(3),
	}
}

// NewUnknownStatusError is a validation error, not an order-state error.
func NewUnknownStatusError(raw string) error {
	names := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		names[i] = string(s)
	}
	return shared.NewValidationError("order", "status",
		fmt.Sprintf("unknown order status %q, expected one of %s", raw, strings.Join(names, ", ")))
}

// orderDomainError is an order error with a captured stack.
type orderDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() error {
	return e.sentinel
}

// Field returns the request field the error refers to, if any.
func (e *orderDomainError) Field() string {
	return e.field
}

func (e *orderDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
