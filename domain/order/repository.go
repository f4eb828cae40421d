package order

import (
	"context"

	"ordersvc/domain/shared"
)

// Repository Order repository interface
// Orders are never deleted.
type Repository interface {
	// Save inserts a new order with its items (version 0) or updates the
	// status of an existing one. Updates are conditional on the version and
	// fail with ErrConcurrentModification when the row moved.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByIDForUpdate also locks the order row until the unit of work ends.
	FindByIDForUpdate(ctx context.Context, id string) (*Order, error)

	FindByCustomerEmail(ctx context.Context, email string) ([]*Order, error)

	List(ctx context.Context, page shared.PageRequest) (shared.Page[*Order], error)
}

// SortableFields are the sort keys accepted by List.
var SortableFields = map[string]bool{
	"id": true, "orderDate": true, "status": true, "totalAmount": true, "customerName": true, "customerEmail": true,
}
