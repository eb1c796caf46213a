package memory

import (
	"context"
	"sort"
	"time"

	"storefront/domain/order"
	"storefront/domain/product"
)

// OrderRepository in-memory order repository
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Add stores the order, inserting unknown products and updating known ones in place
func (r *OrderRepository) Add(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.save(o)
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[o.ID()]; !ok {
		return order.NewOrderNotFoundError(o.ID())
	}
	r.save(o)
	return nil
}

// save reconciles products then upserts the order record; mu must be held
func (r *OrderRepository) save(o *order.Order) {
	now := time.Now()
	for _, p := range o.Products() {
		if rec, ok := r.store.products[p.ID()]; ok {
			rec.name = p.Name()
			rec.price = p.Price()
			rec.updatedAt = now
			r.store.products[p.ID()] = rec
			continue
		}
		r.store.products[p.ID()] = productRecord{
			id:        p.ID(),
			name:      p.Name(),
			price:     p.Price(),
			seq:       r.store.nextSeq(),
			createdAt: p.CreatedAt(),
			updatedAt: p.UpdatedAt(),
		}
	}

	rec, exists := r.store.orders[o.ID()]
	if !exists {
		rec = orderRecord{id: o.ID(), seq: r.store.nextSeq(), createdAt: o.CreatedAt()}
	}
	rec.productIDs = o.ProductIDs()
	rec.totalAmount = o.TotalAmount()
	rec.updatedAt = now
	r.store.orders[o.ID()] = rec
}

// Delete removes the order only; its products stay
func (r *OrderRepository) Delete(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[o.ID()]; !ok {
		return order.NewOrderNotFoundError(o.ID())
	}
	delete(r.store.orders, o.ID())
	return nil
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := make([]orderRecord, 0, len(r.store.orders))
	for _, rec := range r.store.orders {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	out := make([]*order.Order, len(records))
	for i, rec := range records {
		out[i] = r.build(rec)
	}
	return out, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return r.build(rec), nil
}

// build mu must be held
func (r *OrderRepository) build(rec orderRecord) *order.Order {
	products := make([]*product.Product, 0, len(rec.productIDs))
	for _, pid := range rec.productIDs {
		if p, ok := r.store.products[pid]; ok {
			products = append(products, r.store.buildProduct(p))
		}
	}
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:        rec.id,
		Products:  products,
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	})
}

var (
	_ order.Repository = (*OrderRepository)(nil)
	_ order.Queries    = (*OrderRepository)(nil)
)
