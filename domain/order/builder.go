package order

import "storefront/domain/product"

// Builder assembles one Order incrementally.
//
//	o, err := order.NewBuilder().
//		AddProduct(widget).
//		AddProduct(gadget).
//		CalculateTotal().
//		Build()
//
// AddProduct never recomputes the total; without CalculateTotal the built
// order keeps its last computed total (zero for a fresh builder).
// Once Build has handed the order out, AddProduct and CalculateTotal leave it
// alone until Reset.
type Builder struct {
	order *Order
	built bool
	err   error
}

// NewBuilder returns a builder holding a fresh empty order
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset discards the in-progress order and starts a new one
func (b *Builder) Reset() *Builder {
	b.order, b.err = newOrder()
	b.built = false
	return b
}

// AddProduct appends p if no product with the same identity is present.
// A nil product is recorded and reported by Build.
func (b *Builder) AddProduct(p *product.Product) *Builder {
	if b.err != nil || b.built {
		return b
	}
	if p == nil {
		b.err = NewNilProductError()
		return b
	}
	b.order.appendProduct(p)
	return b
}

// CalculateTotal recomputes the in-progress total
func (b *Builder) CalculateTotal() *Builder {
	if b.err == nil && !b.built {
		b.order.RecalculateTotal()
	}
	return b
}

// Build returns the accumulated order. Calling Build again without Reset
// returns the same order.
func (b *Builder) Build() (*Order, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.built {
		b.order.markCreated()
		b.built = true
	}
	return b.order, nil
}
