/*
Package order Application Layer - Order use cases

Every operation follows the same shape: act on the aggregate, persist it
through the repository port inside one unit of work, log, return.

The service is the error boundary. A failed call logs exactly one error entry
and returns an empty result (nil order, or an empty non-nil slice) together
with the cause, so callers can tell order.ErrOrderNotFound and
product.ErrProductNotFound apart from persistence failures with errors.Is.

Events recorded by the aggregate are collected by the unit of work on commit;
presentation adapters notify observers after a call succeeds.
*/
package order

import (
	"context"
	"fmt"

	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
)

// ApplicationService Order application service
type ApplicationService struct {
	orders     order.Repository
	queries    order.Queries
	products   product.Queries
	uowFactory shared.UnitOfWorkFactory
	logger     *zap.Logger
}

// NewApplicationService Create order application service
func NewApplicationService(
	orders order.Repository,
	queries order.Queries,
	products product.Queries,
	uowFactory shared.UnitOfWorkFactory,
	logger *zap.Logger,
) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		orders:     orders,
		queries:    queries,
		products:   products,
		uowFactory: uowFactory,
		logger:     logger.Named("order-service"),
	}
}

func (s *ApplicationService) log(ctx context.Context) *zap.Logger {
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

// fail logs err once at error level and hands it back
func (s *ApplicationService) fail(ctx context.Context, msg string, err error, fields ...zap.Field) error {
	s.log(ctx).Error(msg, append(fields, zap.Error(err))...)
	return err
}

// ============================================================================
// Queries
// ============================================================================

// GetAllOrders returns every order; on failure an empty slice and the cause
func (s *ApplicationService) GetAllOrders(ctx context.Context) ([]*order.Order, error) {
	orders, err := s.queries.GetAll(ctx)
	if err != nil {
		return []*order.Order{}, s.fail(ctx, "Failed to get orders", err)
	}
	s.log(ctx).Info("Retrieved all orders", zap.Int("count", len(orders)))
	return orders, nil
}

// GetOrderByID returns nil and order.ErrOrderNotFound for an unknown id
func (s *ApplicationService) GetOrderByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.queries.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "Failed to get order", err, zap.String("order_id", id))
	}
	s.log(ctx).Info("Retrieved order", zap.String("order_id", id))
	return o, nil
}

// ============================================================================
// Commands
// ============================================================================

// CreateOrder assembles an order from products and persists it.
// Products that are not stored yet are inserted; stored ones are reused.
func (s *ApplicationService) CreateOrder(ctx context.Context, products []*product.Product) (*order.Order, error) {
	b := order.NewBuilder()
	for _, p := range products {
		b.AddProduct(p)
	}
	o, err := b.CalculateTotal().Build()
	if err != nil {
		return nil, s.fail(ctx, "Failed to build order", err)
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.orders.Add(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to create order", err, zap.String("order_id", o.ID()))
	}

	s.log(ctx).Info("Order created with ID: "+o.ID(),
		zap.Int("products", len(o.Products())),
		zap.String("total_amount", o.TotalAmount().String()),
	)
	return o, nil
}

// CreateOrderFromProductIDs resolves stored products and creates an order
func (s *ApplicationService) CreateOrderFromProductIDs(ctx context.Context, productIDs []string) (*order.Order, error) {
	products, err := s.resolveProducts(ctx, productIDs)
	if err != nil {
		return nil, s.fail(ctx, "Failed to create order", err)
	}
	return s.CreateOrder(ctx, products)
}

// UpdateOrder recomputes the total from the order's current products and persists it
func (s *ApplicationService) UpdateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	if o == nil {
		return nil, s.fail(ctx, "Failed to update order", fmt.Errorf("%w: order is nil", shared.ErrInvalidInput))
	}

	o.MarkUpdated()
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to update order", err, zap.String("order_id", o.ID()))
	}

	s.log(ctx).Info("Order updated with ID: "+o.ID(), zap.String("total_amount", o.TotalAmount().String()))
	return o, nil
}

// DeleteOrder removes the order and returns it; its products are kept
func (s *ApplicationService) DeleteOrder(ctx context.Context, id string) (*order.Order, error) {
	var deleted *order.Order

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.queries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.orders.Delete(ctx, o); err != nil {
			return err
		}
		o.MarkDeleted()
		uow.RegisterRemoved(o)
		deleted = o
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to delete order", err, zap.String("order_id", id))
	}

	s.log(ctx).Info("Order deleted with ID: " + id)
	return deleted, nil
}

// AddProductsToOrder merges products into an existing order by identity
func (s *ApplicationService) AddProductsToOrder(ctx context.Context, orderID string, products []*product.Product) (*order.Order, error) {
	var updated *order.Order
	added := 0

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.queries.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if added, err = o.AddProducts(products...); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		updated = o
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to add products to order", err, zap.String("order_id", orderID))
	}

	s.log(ctx).Info("Products added to order with ID: "+orderID,
		zap.Int("added", added),
		zap.String("total_amount", updated.TotalAmount().String()),
	)
	return updated, nil
}

// AddProductIDsToOrder resolves stored products and adds them to an order
func (s *ApplicationService) AddProductIDsToOrder(ctx context.Context, orderID string, productIDs []string) (*order.Order, error) {
	products, err := s.resolveProducts(ctx, productIDs)
	if err != nil {
		return nil, s.fail(ctx, "Failed to add products to order", err, zap.String("order_id", orderID))
	}
	return s.AddProductsToOrder(ctx, orderID, products)
}

// RemoveProductFromOrder drops one product from an order; the product itself is kept
func (s *ApplicationService) RemoveProductFromOrder(ctx context.Context, orderID, productID string) (*order.Order, error) {
	var updated *order.Order

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.queries.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.RemoveProduct(productID); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		updated = o
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to remove product from order", err,
			zap.String("order_id", orderID), zap.String("product_id", productID))
	}

	s.log(ctx).Info("Product removed from order with ID: "+orderID,
		zap.String("product_id", productID),
		zap.String("total_amount", updated.TotalAmount().String()),
	)
	return updated, nil
}

// ReplaceOrderProducts sets the order's product set to productIDs, keeping the
// position of products that stay
func (s *ApplicationService) ReplaceOrderProducts(ctx context.Context, orderID string, productIDs []string) (*order.Order, error) {
	var updated *order.Order

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.queries.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		products, err := s.resolveProducts(ctx, productIDs)
		if err != nil {
			return err
		}

		keep := make(map[string]struct{}, len(products))
		for _, p := range products {
			keep[p.ID()] = struct{}{}
		}
		for _, id := range o.ProductIDs() {
			if _, ok := keep[id]; ok {
				continue
			}
			if err := o.RemoveProduct(id); err != nil {
				return err
			}
		}
		if _, err := o.AddProducts(products...); err != nil {
			return err
		}
		o.MarkUpdated()

		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		updated = o
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to update order", err, zap.String("order_id", orderID))
	}

	s.log(ctx).Info("Order updated with ID: "+orderID,
		zap.Int("products", len(updated.ProductIDs())),
		zap.String("total_amount", updated.TotalAmount().String()),
	)
	return updated, nil
}

func (s *ApplicationService) resolveProducts(ctx context.Context, ids []string) ([]*product.Product, error) {
	products := make([]*product.Product, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
