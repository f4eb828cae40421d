package po

import (
	"time"

	"ordersvc/domain/product"

	"github.com/shopspring/decimal"
)

// ProductPO Product persistence object
type ProductPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:255;not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null"`
	Category  string          `gorm:"size:100;index"`
	IsActive  bool            `gorm:"not null;default:true"`
	Version   int             `gorm:"not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (ProductPO) TableName() string {
	return "products"
}

// FromProductDomain Convert domain model to persistence object
func FromProductDomain(p *product.Product) *ProductPO {
	return &ProductPO{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price(),
		Stock:     p.Stock(),
		Category:  p.Category(),
		IsActive:  p.IsActive(),
		Version:   p.Version(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// ToDomain Convert persistence object to domain model
func (po *ProductPO) ToDomain() *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:        po.ID,
		Name:      po.Name,
		Price:     po.Price,
		Stock:     po.Stock,
		Category:  po.Category,
		Active:    po.IsActive,
		Version:   po.Version,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
