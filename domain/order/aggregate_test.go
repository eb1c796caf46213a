package order

import (
	"fmt"
	"testing"

	"storefront/domain/product"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertTotalInvariant(t *testing.T, o *Order) {
	t.Helper()
	prices := make([]shared.Money, 0)
	for _, p := range o.Products() {
		prices = append(prices, p.Price())
	}
	assert.True(t, shared.Sum(prices...).Equals(o.TotalAmount()),
		"total %s does not match products", o.TotalAmount())
}

func TestTotalInvariantAcrossMutations(t *testing.T) {
	o, err := NewBuilder().CalculateTotal().Build()
	require.NoError(t, err)

	products := make([]*product.Product, 0, 10)
	for i := 0; i < 10; i++ {
		products = append(products, newProduct(t, fmt.Sprintf("P%d", i), fmt.Sprintf("%d.1%d", i, i)))
	}

	_, err = o.AddProducts(products[:5]...)
	require.NoError(t, err)
	assertTotalInvariant(t, o)

	_, err = o.AddProducts(products[3:]...)
	require.NoError(t, err)
	assert.Len(t, o.Products(), 10)
	assertTotalInvariant(t, o)

	require.NoError(t, o.RemoveProduct(products[0].ID()))
	require.NoError(t, o.RemoveProduct(products[9].ID()))
	assert.Len(t, o.Products(), 8)
	assertTotalInvariant(t, o)

	// 0.1 + 0.2 must stay exact
	exact, err := NewBuilder().
		AddProduct(newProduct(t, "a", "0.1")).
		AddProduct(newProduct(t, "b", "0.2")).
		CalculateTotal().Build()
	require.NoError(t, err)
	assert.Equal(t, "0.30", exact.TotalAmount().String())
}

func TestAddProductsRejectsNil(t *testing.T) {
	o, err := NewBuilder().Build()
	require.NoError(t, err)

	added, err := o.AddProducts(newProduct(t, "Widget", "1"), nil)
	assert.ErrorIs(t, err, ErrNilProduct)
	assert.Zero(t, added)
	assert.Empty(t, o.Products())
}

func TestAddProductsRecordsEventOnlyWhenChanged(t *testing.T) {
	widget := newProduct(t, "Widget", "9.99")
	o, err := NewBuilder().AddProduct(widget).CalculateTotal().Build()
	require.NoError(t, err)
	o.PullEvents()

	_, err = o.AddProducts(widget)
	require.NoError(t, err)
	assert.Empty(t, o.PullEvents())

	_, err = o.AddProducts(newProduct(t, "Gadget", "5"))
	require.NoError(t, err)
	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventOrderProductsAdded, events[0].EventName())
}

func TestRemoveUnknownProduct(t *testing.T) {
	o, err := NewBuilder().Build()
	require.NoError(t, err)

	err = o.RemoveProduct("missing")
	assert.ErrorIs(t, err, ErrProductNotInOrder)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRebuildRecomputesTotalAndDedupes(t *testing.T) {
	widget := newProduct(t, "Widget", "9.99")
	gadget := newProduct(t, "Gadget", "5.00")

	o := RebuildFromDTO(ReconstructionDTO{
		ID:       "order-1",
		Products: []*product.Product{widget, gadget, widget, nil},
	})

	assert.Equal(t, "order-1", o.ID())
	assert.Equal(t, []string{widget.ID(), gadget.ID()}, o.ProductIDs())
	assert.Equal(t, "14.99", o.TotalAmount().String())
	assert.Empty(t, o.PullEvents())
}

func TestPriceChangeIsPickedUpOnRecalculate(t *testing.T) {
	widget := newProduct(t, "Widget", "9.99")
	o, err := NewBuilder().AddProduct(widget).CalculateTotal().Build()
	require.NoError(t, err)

	require.NoError(t, widget.ChangePrice(shared.MustParseMoney("10.01")))
	o.MarkUpdated()
	assert.Equal(t, "10.01", o.TotalAmount().String())
}
