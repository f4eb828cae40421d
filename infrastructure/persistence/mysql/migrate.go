package mysql

import (
	"fmt"

	"ordersvc/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the service tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.ProductPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
