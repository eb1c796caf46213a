package gormrepo

import (
	"fmt"

	"storefront/infrastructure/persistence/gormrepo/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables used by this package.
// Development convenience only; production schemas are managed outside the app.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.ProductPO{},
		&po.OrderPO{},
		&po.OrderProductPO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
