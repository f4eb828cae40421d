package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest is the body of create and update. Price is checked by the
// domain (at least 0.01); IsActive defaults to true on create and to the
// current value on update.
type ProductRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Stock    *int            `json:"stock" validate:"required,min=0"`
	Category string          `json:"category" validate:"required,max=100"`
	IsActive *bool           `json:"isActive"`
}

type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ProductPage struct {
	Items      []*ProductResponse
	Page       int
	Size       int
	Total      int64
	TotalPages int
}
