package gormrepo

import (
	"context"
	"fmt"
	"time"

	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/infrastructure/persistence/gormrepo/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository GORM implementation of the order ports
// GORM associations are not used; links are written to order_products explicitly
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Add stores a new order. Referenced products are reconciled: missing ones
// are inserted, stored ones are updated in place.
func (r *OrderRepository) Add(ctx context.Context, o *order.Order) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.save(tx, o)
	})
}

// Update stores an existing order; order.ErrOrderNotFound if it was never added
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return r.save(tx, o)
	})
}

func (r *OrderRepository) save(tx *gorm.DB, o *order.Order) error {
	now := time.Now()
	if err := reconcileProducts(tx, o.Products(), now); err != nil {
		return err
	}

	orderPO, links := po.FromOrderDomain(o)
	orderPO.UpdatedAt = now

	// upsert by identity so saving the same order twice never conflicts
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_amount", "updated_at"}),
	}).Create(orderPO).Error
	if err != nil {
		return fmt.Errorf("save order %s: %w", o.ID(), err)
	}

	if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderProductPO{}).Error; err != nil {
		return fmt.Errorf("clear order links: %w", err)
	}
	if len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("save order links: %w", err)
		}
	}
	return nil
}

// reconcileProducts inserts products not yet stored and updates the others in place
func reconcileProducts(tx *gorm.DB, products []*product.Product, now time.Time) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID()
	}

	var existing []string
	if err := tx.Model(&po.ProductPO{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("check stored products: %w", err)
	}
	stored := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		stored[id] = struct{}{}
	}

	var inserts []*po.ProductPO
	for _, p := range products {
		if _, ok := stored[p.ID()]; ok {
			if err := updateProductRow(tx, p, now); err != nil {
				return err
			}
			continue
		}
		inserts = append(inserts, po.FromProductDomain(p))
	}

	if len(inserts) > 0 {
		if err := tx.Create(&inserts).Error; err != nil {
			return fmt.Errorf("insert products: %w", err)
		}
	}
	return nil
}

// Delete removes the order row and its links; products are never deleted here
func (r *OrderRepository) Delete(ctx context.Context, o *order.Order) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderProductPO{}).Error; err != nil {
			return fmt.Errorf("delete order links: %w", err)
		}
		result := tx.Where("id = ?", o.ID()).Delete(&po.OrderPO{})
		if result.Error != nil {
			return fmt.Errorf("delete order %s: %w", o.ID(), result.Error)
		}
		if result.RowsAffected == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return nil
	})
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	db := conn(ctx, r.db)

	var rows []po.OrderPO
	if err := db.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return r.build(db, rows)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	db := conn(ctx, r.db)

	var rows []po.OrderPO
	if err := db.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query order %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, order.NewOrderNotFoundError(id)
	}

	orders, err := r.build(db, rows)
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// build loads links and products for all rows with two queries
func (r *OrderRepository) build(db *gorm.DB, rows []po.OrderPO) ([]*order.Order, error) {
	out := make([]*order.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	orderIDs := make([]string, len(rows))
	for i, row := range rows {
		orderIDs[i] = row.ID
	}

	var links []po.OrderProductPO
	if err := db.Where("order_id IN ?", orderIDs).Order("order_id ASC, position ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("query order links: %w", err)
	}

	productIDs := make([]string, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		if _, ok := seen[link.ProductID]; !ok {
			seen[link.ProductID] = struct{}{}
			productIDs = append(productIDs, link.ProductID)
		}
	}

	var productRows []po.ProductPO
	if len(productIDs) > 0 {
		if err := db.Where("id IN ?", productIDs).Find(&productRows).Error; err != nil {
			return nil, fmt.Errorf("query order products: %w", err)
		}
	}
	products, err := buildProducts(db, productRows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID()] = p
	}

	linked := make(map[string][]*product.Product, len(rows))
	for _, link := range links {
		if p, ok := byID[link.ProductID]; ok {
			linked[link.OrderID] = append(linked[link.OrderID], p)
		}
	}

	for i := range rows {
		out = append(out, rows[i].ToDomain(linked[rows[i].ID]))
	}
	return out, nil
}

// Compile-time interface implementation check
var (
	_ order.Repository = (*OrderRepository)(nil)
	_ order.Queries    = (*OrderRepository)(nil)
)
