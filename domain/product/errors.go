package product

import (
	"errors"
	"fmt"

	"ordersvc/domain/shared"
)

var (
	// ErrProductNotFound the product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock not enough stock, or the product is inactive
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConcurrentModification optimistic lock conflict, the caller should retry
	ErrConcurrentModification = errors.New("product was modified by another transaction, please retry")
)

func NewProductNotFoundError(productID string) error {
	return &productDomainError{
		sentinel: ErrProductNotFound,
		message:  "Product with ID " + productID + " not found",
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(productID string) error {
	return &productDomainError{
		sentinel: ErrConcurrentModification,
		message:  "product " + productID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// InsufficientStockError carries the available and requested quantities.
// Unavailable is set when the product is inactive or has no stock at all.
type InsufficientStockError struct {
	ProductID   string
	Name        string
	Available   int
	Requested   int
	Unavailable bool
	stack       []uintptr
}

func NewInsufficientStockError(productID, name string, available, requested int) error {
	return &InsufficientStockError{
		ProductID: productID,
		Name:      name,
		Available: available,
		Requested: requested,
		stack:     shared.CaptureStack(3),
	}
}

// NewUnavailableError is returned for inactive or out-of-stock products.
func NewUnavailableError(productID, name string, available, requested int) error {
	return &InsufficientStockError{
		ProductID:   productID,
		Name:        name,
		Available:   available,
		Requested:   requested,
		Unavailable: true,
		stack:       shared.CaptureStack(3),
	}
}

func (e *InsufficientStockError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("Product %s is currently out of stock or inactive.", e.Name)
	}
	return fmt.Sprintf("Insufficient stock for product: %s. Available: %d, Requested: %d", e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func (e *InsufficientStockError) Stack() []string {
	return shared.FormatStack(e.stack)
}

type productDomainError struct {
	sentinel error
	message  string
	stack    []uintptr
}

func (e *productDomainError) Error() string {
	return e.message
}

func (e *productDomainError) Unwrap() error {
	return e.sentinel
}

func (e *productDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
