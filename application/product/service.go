/*
Package product Application Layer - Product use cases

Same error policy as the order service: one error log per failed call, an
empty result, and the cause for classification.
*/
package product

import (
	"context"
	"fmt"

	"storefront/domain/product"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
)

// ApplicationService Product application service
type ApplicationService struct {
	products   product.Repository
	queries    product.Queries
	uowFactory shared.UnitOfWorkFactory
	logger     *zap.Logger
}

// NewApplicationService Create product application service
func NewApplicationService(
	products product.Repository,
	queries product.Queries,
	uowFactory shared.UnitOfWorkFactory,
	logger *zap.Logger,
) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		products:   products,
		queries:    queries,
		uowFactory: uowFactory,
		logger:     logger.Named("product-service"),
	}
}

func (s *ApplicationService) log(ctx context.Context) *zap.Logger {
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

func (s *ApplicationService) fail(ctx context.Context, msg string, err error, fields ...zap.Field) error {
	s.log(ctx).Error(msg, append(fields, zap.Error(err))...)
	return err
}

// GetAllProducts returns every product; on failure an empty slice and the cause
func (s *ApplicationService) GetAllProducts(ctx context.Context) ([]*product.Product, error) {
	products, err := s.queries.GetAll(ctx)
	if err != nil {
		return []*product.Product{}, s.fail(ctx, "Failed to get products", err)
	}
	s.log(ctx).Info("Retrieved all products", zap.Int("count", len(products)))
	return products, nil
}

// GetProductByID returns nil and product.ErrProductNotFound for an unknown id
func (s *ApplicationService) GetProductByID(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.queries.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "Failed to get product", err, zap.String("product_id", id))
	}
	s.log(ctx).Info("Retrieved product", zap.String("product_id", id))
	return p, nil
}

// CreateProduct validates and stores a new product
func (s *ApplicationService) CreateProduct(ctx context.Context, name string, price shared.Money) (*product.Product, error) {
	p, err := product.New(name, price)
	if err != nil {
		return nil, s.fail(ctx, "Failed to create product", err)
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.products.Add(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to create product", err, zap.String("product_id", p.ID()))
	}

	s.log(ctx).Info("Product created with ID: "+p.ID(), zap.String("price", p.Price().String()))
	return p, nil
}

// UpdateProduct persists the current state of p
func (s *ApplicationService) UpdateProduct(ctx context.Context, p *product.Product) (*product.Product, error) {
	if p == nil {
		return nil, s.fail(ctx, "Failed to update product", fmt.Errorf("%w: product is nil", shared.ErrInvalidInput))
	}

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to update product", err, zap.String("product_id", p.ID()))
	}

	s.log(ctx).Info("Product updated with ID: " + p.ID())
	return p, nil
}

// UpdateProductDetails loads, renames and reprices a product in one unit of work
func (s *ApplicationService) UpdateProductDetails(ctx context.Context, id, name string, price shared.Money) (*product.Product, error) {
	var updated *product.Product

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		p, err := s.queries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := p.Rename(name); err != nil {
			return err
		}
		if err := p.ChangePrice(price); err != nil {
			return err
		}
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		updated = p
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to update product", err, zap.String("product_id", id))
	}

	s.log(ctx).Info("Product updated with ID: "+id, zap.String("price", updated.Price().String()))
	return updated, nil
}

// DeleteProduct removes a product and detaches it from every order
func (s *ApplicationService) DeleteProduct(ctx context.Context, id string) (*product.Product, error) {
	var deleted *product.Product

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		p, err := s.queries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.products.Delete(ctx, p); err != nil {
			return err
		}
		p.MarkDeleted()
		uow.RegisterRemoved(p)
		deleted = p
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Failed to delete product", err, zap.String("product_id", id))
	}

	s.log(ctx).Info("Product deleted with ID: " + id)
	return deleted, nil
}
