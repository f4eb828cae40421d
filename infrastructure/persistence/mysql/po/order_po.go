package po

import (
	"time"

	"ordersvc/domain/order"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID            string          `gorm:"primaryKey;size:64"`
	CustomerName  string          `gorm:"size:255;not null"`
	CustomerEmail string          `gorm:"size:255;index;not null"`
	OrderDate     time.Time       `gorm:"index;not null"`
	Status        string          `gorm:"size:20;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Version       int             `gorm:"not null;default:0"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	OrderID     string          `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	ProductID   string          `gorm:"size:64;index;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:            o.ID(),
		CustomerName:  o.CustomerName(),
		CustomerEmail: o.CustomerEmail(),
		OrderDate:     o.OrderDate(),
		Status:        string(o.Status()),
		TotalAmount:   o.TotalAmount(),
		Version:       o.Version(),
		UpdatedAt:     o.UpdatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, 0, len(items))
	for _, item := range items {
		itemPOs = append(itemPOs, OrderItemPO{
			ID:          item.ID(),
			OrderID:     o.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			TotalPrice:  item.TotalPrice(),
		})
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence objects to domain model
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.OrderItem, 0, len(itemPOs))
	for _, itemPO := range itemPOs {
		items = append(items, order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:          itemPO.ID,
			OrderID:     itemPO.OrderID,
			ProductID:   itemPO.ProductID,
			ProductName: itemPO.ProductName,
			Quantity:    itemPO.Quantity,
			UnitPrice:   itemPO.UnitPrice,
			TotalPrice:  itemPO.TotalPrice,
		}))
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:            po.ID,
		CustomerName:  po.CustomerName,
		CustomerEmail: po.CustomerEmail,
		OrderDate:     po.OrderDate,
		Status:        order.Status(po.Status),
		TotalAmount:   po.TotalAmount,
		Items:         items,
		Version:       po.Version,
		UpdatedAt:     po.UpdatedAt,
	})
}
