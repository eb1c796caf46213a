package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain/product"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/gormrepo/po"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository GORM implementation of the product ports
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Add(ctx context.Context, p *product.Product) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(po.FromProductDomain(p)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewConflictError("product", "product already exists: "+p.ID())
			}
			return fmt.Errorf("insert product %s: %w", p.ID(), err)
		}
		return nil
	})
}

// Update writes name and price in place and refreshes the stored totals of
// orders that reference the product
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&po.ProductPO{}).Where("id = ?", p.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return product.NewProductNotFoundError(p.ID())
		}

		if err := updateProductRow(tx, p, time.Now()); err != nil {
			return err
		}

		orderIDs, err := orderIDsForProduct(tx, p.ID())
		if err != nil {
			return err
		}
		return refreshOrderTotals(tx, orderIDs)
	})
}

// Delete removes the product and its links; orders stay and their stored totals follow
func (r *ProductRepository) Delete(ctx context.Context, p *product.Product) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		orderIDs, err := orderIDsForProduct(tx, p.ID())
		if err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", p.ID()).Delete(&po.OrderProductPO{}).Error; err != nil {
			return fmt.Errorf("delete product links: %w", err)
		}
		result := tx.Where("id = ?", p.ID()).Delete(&po.ProductPO{})
		if result.Error != nil {
			return fmt.Errorf("delete product %s: %w", p.ID(), result.Error)
		}
		if result.RowsAffected == 0 {
			return product.NewProductNotFoundError(p.ID())
		}

		return refreshOrderTotals(tx, orderIDs)
	})
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*product.Product, error) {
	db := conn(ctx, r.db)

	var rows []po.ProductPO
	if err := db.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return buildProducts(db, rows)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	db := conn(ctx, r.db)

	var rows []po.ProductPO
	if err := db.Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query product %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, product.NewProductNotFoundError(id)
	}

	products, err := buildProducts(db, rows)
	if err != nil {
		return nil, err
	}
	return products[0], nil
}

// ============================================================================
// helpers shared with OrderRepository
// ============================================================================

func updateProductRow(tx *gorm.DB, p *product.Product, now time.Time) error {
	err := tx.Model(&po.ProductPO{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"name":       p.Name(),
			"price":      p.Price().Decimal(),
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("update product %s: %w", p.ID(), err)
	}
	return nil
}

func orderIDsForProduct(tx *gorm.DB, productID string) ([]string, error) {
	var ids []string
	err := tx.Model(&po.OrderProductPO{}).
		Where("product_id = ?", productID).
		Order("order_id ASC").
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query orders for product %s: %w", productID, err)
	}
	return ids, nil
}

// refreshOrderTotals rewrites the stored total of each order from its current links
func refreshOrderTotals(tx *gorm.DB, orderIDs []string) error {
	now := time.Now()
	for _, id := range orderIDs {
		var prices []decimal.Decimal
		err := tx.Model(&po.ProductPO{}).
			Joins("JOIN order_products ON order_products.product_id = products.id").
			Where("order_products.order_id = ?", id).
			Pluck("products.price", &prices).Error
		if err != nil {
			return fmt.Errorf("sum order %s: %w", id, err)
		}

		amounts := make([]shared.Money, len(prices))
		for i, price := range prices {
			amounts[i] = shared.NewMoney(price)
		}

		err = tx.Model(&po.OrderPO{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"total_amount": shared.Sum(amounts...).Decimal(),
				"updated_at":   now,
			}).Error
		if err != nil {
			return fmt.Errorf("refresh total of order %s: %w", id, err)
		}
	}
	return nil
}

// buildProducts attaches the order back-references to each row
func buildProducts(db *gorm.DB, rows []po.ProductPO) ([]*product.Product, error) {
	out := make([]*product.Product, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var links []po.OrderProductPO
	if err := db.Where("product_id IN ?", ids).Order("order_id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("query product links: %w", err)
	}
	orderIDs := make(map[string][]string, len(rows))
	for _, link := range links {
		orderIDs[link.ProductID] = append(orderIDs[link.ProductID], link.OrderID)
	}

	for i := range rows {
		out = append(out, rows[i].ToDomain(orderIDs[rows[i].ID]))
	}
	return out, nil
}

var (
	_ product.Repository = (*ProductRepository)(nil)
	_ product.Queries    = (*ProductRepository)(nil)
)
