package product

import (
	"context"

	"ordersvc/domain/shared"
)

// Repository Product repository interface
type Repository interface {
	// FindByID returns ErrProductNotFound when absent.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByIDForUpdate is FindByID plus a row lock held until the surrounding
	// unit of work ends. Callers locking several products must lock them in
	// ascending id order.
	FindByIDForUpdate(ctx context.Context, id string) (*Product, error)

	// Save inserts a new product (version 0) or updates an existing one,
	// failing with ErrConcurrentModification if the stored version moved.
	Save(ctx context.Context, product *Product) error

	Delete(ctx context.Context, id string) error

	Search(ctx context.Context, spec shared.Specification, page shared.PageRequest) (shared.Page[*Product], error)
}

// SortableFields are the sort keys accepted by Search.
var SortableFields = map[string]bool{
	"id": true, "name": true, "price": true, "stock": true, "category": true, "createdAt": true,
}
