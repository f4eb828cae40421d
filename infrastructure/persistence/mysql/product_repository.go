package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	"ordersvc/infrastructure/persistence"
	"ordersvc/infrastructure/persistence/mysql/po"
	"ordersvc/infrastructure/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"category":  "category",
	"createdAt": "created_at",
}

// ProductRepository MySQL/GORM implementation of product repository
type ProductRepository struct {
	db         *gorm.DB
	translator *specification.GormTranslator
}

// NewProductRepository Create product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, translator: specification.NewGormTranslator()}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	return r.find(r.getDB(ctx), id)
}

// FindByIDForUpdate reads the row with SELECT ... FOR UPDATE.
// Outside a unit of work the lock is released immediately.
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*product.Product, error) {
	return r.find(r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *ProductRepository) find(db *gorm.DB, id string) (*product.Product, error) {
	var productPO po.ProductPO
	if err := db.First(&productPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return productPO.ToDomain(), nil
}

// Save inserts version 0 products and updates the rest conditionally on the
// version read.
func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	db := r.getDB(ctx)
	productPO := po.FromProductDomain(p)

	if p.Version() == 0 {
		productPO.Version = 1
		if err := db.Create(productPO).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return product.NewConcurrentModificationError(p.ID())
			}
			return fmt.Errorf("failed to insert product %s: %w", p.ID(), err)
		}
		p.IncrementVersionForSave()
		return nil
	}

	result := db.Model(&po.ProductPO{}).
		Where("id = ? AND version = ?", p.ID(), p.Version()).
		Updates(map[string]interface{}{
			"name":       productPO.Name,
			"price":      productPO.Price,
			"stock":      productPO.Stock,
			"category":   productPO.Category,
			"is_active":  productPO.IsActive,
			"version":    p.Version() + 1,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID(), result.Error)
	}
	if result.RowsAffected == 0 {
		return product.NewConcurrentModificationError(p.ID())
	}

	p.IncrementVersionForSave()
	return nil
}

// Delete refuses to remove a product that order items still reference.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	db := r.getDB(ctx)

	var references int64
	if err := db.Model(&po.OrderItemPO{}).Where("product_id = ?", id).Count(&references).Error; err != nil {
		return fmt.Errorf("failed to check references of product %s: %w", id, err)
	}
	if references > 0 {
		return shared.NewConflictError("product", "Product with ID "+id+" is referenced by existing orders")
	}

	result := db.Delete(&po.ProductPO{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return product.NewProductNotFoundError(id)
	}
	return nil
}

func (r *ProductRepository) Search(ctx context.Context, spec shared.Specification, page shared.PageRequest) (shared.Page[*product.Product], error) {
	page = page.Normalize()
	scope, err := r.translator.Scope(spec)
	if err != nil {
		return shared.Page[*product.Product]{}, err
	}

	query := r.getDB(ctx).Model(&po.ProductPO{}).Scopes(scope).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Page[*product.Product]{}, fmt.Errorf("failed to count products: %w", err)
	}

	var productPOs []po.ProductPO
	if err := query.
		Order(orderBy(productSortColumns, page, "id")).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&productPOs).Error; err != nil {
		return shared.Page[*product.Product]{}, fmt.Errorf("failed to search products: %w", err)
	}

	items := make([]*product.Product, 0, len(productPOs))
	for i := range productPOs {
		items = append(items, productPOs[i].ToDomain())
	}
	return shared.Page[*product.Product]{Items: items, Total: total, Page: page.Page, Size: page.Size}, nil
}

// orderBy maps a sort key to its column; unknown keys fall back to fallback.
// The primary key is appended as a tie breaker so pages are stable.
func orderBy(columns map[string]string, page shared.PageRequest, fallback string) clause.OrderBy {
	column, ok := columns[page.SortField]
	if !ok {
		column = fallback
	}
	order := clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: column}, Desc: page.SortDesc},
	}}
	if column != "id" {
		order.Columns = append(order.Columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return order
}

var _ product.Repository = (*ProductRepository)(nil)
