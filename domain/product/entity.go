/*
Package product holds the Product aggregate and its stock ledger.

Stock is a non-negative counter. It is only changed through DebitStock and
CreditStock (order lifecycle) or Update (catalogue maintenance).
*/
package product

import (
	"fmt"
	"strings"
	"time"

	"ordersvc/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prices are stored as decimal(12,2): at most two fractional digits and ten
// integer digits.
var (
	MinPrice = decimal.RequireFromString("0.01")
	MaxPrice = decimal.RequireFromString("9999999999.99")
)

const priceScale = 2

// Product aggregate root
type Product struct {
	shared.EventRecorder

	id        string
	name      string
	price     decimal.Decimal
	stock     int
	category  string
	active    bool
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// Attributes are the editable fields of a product.
type Attributes struct {
	Name     string
	Price    decimal.Decimal
	Stock    int
	Category string
	Active   bool
}

func (a Attributes) validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(a.Name) == "" {
		fields["name"] = "Product name cannot be empty"
	}
	switch {
	case a.Price.LessThan(MinPrice):
		fields["price"] = "Product price must be greater than 0"
	case !a.Price.Equal(a.Price.Truncate(priceScale)):
		fields["price"] = "Product price can have at most 2 decimal places"
	case a.Price.GreaterThan(MaxPrice):
		fields["price"] = "Product price cannot exceed " + MaxPrice.StringFixed(priceScale)
	}
	if a.Stock < 0 {
		fields["stock"] = "Product stock cannot be negative"
	}
	if strings.TrimSpace(a.Category) == "" {
		fields["category"] = "Product category cannot be empty"
	}
	return shared.NewValidationErrors("product", fields)
}

// NewProduct creates a product with a fresh UUIDv7 identity.
func NewProduct(attrs Attributes) (*Product, error) {
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product ID: %w", err)
	}

	now := time.Now()
	return &Product{
		id:        id.String(),
		name:      attrs.Name,
		price:     attrs.Price,
		stock:     attrs.Stock,
		category:  attrs.Category,
		active:    attrs.Active,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Update replaces every editable field.
func (p *Product) Update(attrs Attributes) error {
	if err := attrs.validate(); err != nil {
		return err
	}
	p.name = attrs.Name
	p.price = attrs.Price
	p.stock = attrs.Stock
	p.category = attrs.Category
	p.active = attrs.Active
	p.updatedAt = time.Now()
	return nil
}

// ============================================================================
// Stock ledger
// ============================================================================

// HasStock reports whether quantity units can be debited right now.
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.stock >= quantity
}

// IsAvailable reports whether the product can appear on a new order at all.
func (p *Product) IsAvailable() bool {
	return p.active && p.stock > 0
}

// DebitStock removes quantity units. Stock never goes below zero.
func (p *Product) DebitStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("product", "quantity", "quantity must be positive")
	}
	if p.stock < quantity {
		return NewInsufficientStockError(p.id, p.name, p.stock, quantity)
	}
	p.stock -= quantity
	p.updatedAt = time.Now()
	return nil
}

// CreditStock returns quantity units.
func (p *Product) CreditStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("product", "quantity", "quantity must be positive")
	}
	p.stock += quantity
	p.updatedAt = time.Now()
	return nil
}

// IncrementVersionForSave is called by repositories after a successful write.
func (p *Product) IncrementVersionForSave() {
	p.version++
}

// ============================================================================
// Reconstruction (repositories only)
// ============================================================================

type ReconstructionDTO struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Stock     int
	Category  string
	Active    bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:        dto.ID,
		name:      dto.Name,
		price:     dto.Price,
		stock:     dto.Stock,
		category:  dto.Category,
		active:    dto.Active,
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

// ToDTO snapshots the product, used by the in-memory store to copy state.
func (p *Product) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:        p.id,
		Name:      p.name,
		Price:     p.price,
		Stock:     p.stock,
		Category:  p.category,
		Active:    p.active,
		Version:   p.version,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
}

func (p *Product) ID() string             { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) Stock() int             { return p.stock }
func (p *Product) Category() string       { return p.category }
func (p *Product) IsActive() bool         { return p.active }
func (p *Product) Version() int           { return p.version }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }

var _ shared.AggregateRoot = (*Product)(nil)
