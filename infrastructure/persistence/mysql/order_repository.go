package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordersvc/domain/order"
	"ordersvc/domain/shared"
	"ordersvc/infrastructure/persistence"
	"ordersvc/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSortColumns = map[string]string{
	"id":            "id",
	"orderDate":     "order_date",
	"status":        "status",
	"totalAmount":   "total_amount",
	"customerName":  "customer_name",
	"customerEmail": "customer_email",
}

// OrderRepository MySQL/GORM implementation of order repository
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Save order (create or update)
// Items are immutable, so only a new order writes order_items.
// When called standalone, it creates its own transaction for atomicity
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.Version() == 0 {
		orderPO.Version = 1
		if err := tx.Create(orderPO).Error; err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.ID(), err)
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return fmt.Errorf("failed to insert items of order %s: %w", o.ID(), err)
			}
		}
		o.IncrementVersionForSave()
		return nil
	}

	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), o.Version()).
		Updates(map[string]interface{}{
			"status":     orderPO.Status,
			"version":    o.Version() + 1,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", o.ID(), result.Error)
	}
	if result.RowsAffected == 0 {
		return order.NewConcurrentModificationError(o.ID())
	}

	o.IncrementVersionForSave()
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	return r.find(db, db, id)
}

// FindByIDForUpdate locks the order row; its items are immutable and read plainly.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)
	return r.find(db.Clauses(clause.Locking{Strength: "UPDATE"}), db, id)
}

func (r *OrderRepository) find(orderDB, itemDB *gorm.DB, id string) (*order.Order, error) {
	var orderPO po.OrderPO
	if err := orderDB.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}

	// Manually query order items (do not use GORM's Preload to keep aggregate boundaries clear)
	var itemPOs []po.OrderItemPO
	if err := itemDB.Where("order_id = ?", id).Order("id").Find(&itemPOs).Error; err != nil {
		return nil, fmt.Errorf("failed to load items of order %s: %w", id, err)
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByCustomerEmail returns the customer's orders, newest first.
func (r *OrderRepository) FindByCustomerEmail(ctx context.Context, email string) ([]*order.Order, error) {
	db := r.getDB(ctx)

	var orderPOs []po.OrderPO
	if err := db.Where("customer_email = ?", email).
		Order("order_date DESC").
		Order("id DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders of %s: %w", email, err)
	}

	return r.withItems(db, orderPOs)
}

func (r *OrderRepository) List(ctx context.Context, page shared.PageRequest) (shared.Page[*order.Order], error) {
	page = page.Normalize()
	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&po.OrderPO{}).Count(&total).Error; err != nil {
		return shared.Page[*order.Order]{}, fmt.Errorf("failed to count orders: %w", err)
	}

	var orderPOs []po.OrderPO
	if err := db.Order(orderBy(orderSortColumns, page, "order_date")).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&orderPOs).Error; err != nil {
		return shared.Page[*order.Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, err := r.withItems(db, orderPOs)
	if err != nil {
		return shared.Page[*order.Order]{}, err
	}
	return shared.Page[*order.Order]{Items: orders, Total: total, Page: page.Page, Size: page.Size}, nil
}

// withItems loads the items of several orders with one IN query.
func (r *OrderRepository) withItems(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, orderPO := range orderPOs {
		ids[i] = orderPO.ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("id").Find(&itemPOs).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	byOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
