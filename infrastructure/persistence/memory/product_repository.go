package memory

import (
	"context"
	"sort"
	"time"

	"storefront/domain/product"
	"storefront/domain/shared"
)

// ProductRepository in-memory product repository
type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Add(ctx context.Context, p *product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[p.ID()]; ok {
		return shared.NewConflictError("product", "product already exists: "+p.ID())
	}
	r.store.products[p.ID()] = productRecord{
		id:        p.ID(),
		name:      p.Name(),
		price:     p.Price(),
		seq:       r.store.nextSeq(),
		createdAt: p.CreatedAt(),
		updatedAt: p.UpdatedAt(),
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.products[p.ID()]
	if !ok {
		return product.NewProductNotFoundError(p.ID())
	}
	rec.name = p.Name()
	rec.price = p.Price()
	rec.updatedAt = time.Now()
	r.store.products[p.ID()] = rec

	r.refreshTotals(p.ID())
	return nil
}

// Delete removes the product and detaches it from every order
func (r *ProductRepository) Delete(ctx context.Context, p *product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[p.ID()]; !ok {
		return product.NewProductNotFoundError(p.ID())
	}
	delete(r.store.products, p.ID())

	for id, o := range r.store.orders {
		kept := o.productIDs[:0:0]
		for _, pid := range o.productIDs {
			if pid != p.ID() {
				kept = append(kept, pid)
			}
		}
		if len(kept) != len(o.productIDs) {
			o.productIDs = kept
			o.totalAmount = r.store.sumOf(kept)
			o.updatedAt = time.Now()
			r.store.orders[id] = o
		}
	}
	return nil
}

// refreshTotals keeps stored order totals in line after a price change; mu must be held
func (r *ProductRepository) refreshTotals(productID string) {
	for _, id := range r.store.orderIDsFor(productID) {
		o := r.store.orders[id]
		o.totalAmount = r.store.sumOf(o.productIDs)
		r.store.orders[id] = o
	}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := make([]productRecord, 0, len(r.store.products))
	for _, rec := range r.store.products {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	out := make([]*product.Product, len(records))
	for i, rec := range records {
		out[i] = r.store.buildProduct(rec)
	}
	return out, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.products[id]
	if !ok {
		return nil, product.NewProductNotFoundError(id)
	}
	return r.store.buildProduct(rec), nil
}

// buildProduct mu must be held
func (s *Store) buildProduct(rec productRecord) *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:        rec.id,
		Name:      rec.name,
		Price:     rec.price,
		OrderIDs:  s.orderIDsFor(rec.id),
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	})
}

var (
	_ product.Repository = (*ProductRepository)(nil)
	_ product.Queries    = (*ProductRepository)(nil)
)
