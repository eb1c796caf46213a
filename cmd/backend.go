package cmd

import (
	"context"
	"fmt"

	"storefront/api/health"
	"storefront/config"
	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/gormrepo"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend 仓储与工作单元的一组实现
type Backend struct {
	Orders       order.Repository
	OrderQueries order.Queries
	Products     product.Repository
	ProductQuery product.Queries
	UoWFactory   shared.UnitOfWorkFactory

	// DB is nil for the memory backend
	DB *gorm.DB
}

// IsMemory reports whether state lives only in this process
func (b *Backend) IsMemory() bool {
	return b.DB == nil
}

// HealthChecks returns the dependency checks for the backend
func (b *Backend) HealthChecks() map[string]health.Checker {
	if b.DB == nil {
		return nil
	}
	return map[string]health.Checker{
		"database": func(ctx context.Context) error { return gormrepo.Ping(ctx, b.DB) },
	}
}

// Close releases the database connection pool
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenBackend selects the persistence backend from database.type
func OpenBackend(cfg *config.Config) (*Backend, error) {
	if cfg.Database.Type == "" || cfg.Database.Type == "memory" {
		logger.Info("Using in-memory persistence layer")
		store := memory.NewStore()
		orders := memory.NewOrderRepository(store)
		products := memory.NewProductRepository(store)
		return &Backend{
			Orders:       orders,
			OrderQueries: orders,
			Products:     products,
			ProductQuery: products,
			// events are routed through the notifier by the front-ends, not the unit of work
			UoWFactory: memory.NewUnitOfWorkFactory(store, nil, logger.Named("uow")),
		}, nil
	}

	logger.Info("Using GORM persistence layer", zap.String("driver", cfg.Database.Type))

	dbConfig := gormrepo.FromAppConfig(cfg.Database, cfg.Log.Level)
	dbConfig.Logger = logger.Named("gorm")
	db, err := dbConfig.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Database.Type, err)
	}

	if cfg.Database.AutoMigrate {
		if err := gormrepo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	orders := gormrepo.NewOrderRepository(db)
	products := gormrepo.NewProductRepository(db)
	return &Backend{
		Orders:       orders,
		OrderQueries: orders,
		Products:     products,
		ProductQuery: products,
		UoWFactory:   gormrepo.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg.Database)),
		DB:           db,
	}, nil
}
