package order

import (
	"context"
	"errors"
	"testing"

	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	svc   *ApplicationService
	store *memory.Store
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	store := memory.NewStore()
	repo := memory.NewOrderRepository(store)
	svc := NewApplicationService(
		repo, repo,
		memory.NewProductRepository(store),
		memory.NewUnitOfWorkFactory(store, nil, zap.NewNop()),
		zap.New(core),
	)
	return &fixture{svc: svc, store: store, logs: logs}
}

func (f *fixture) errorLogs() int {
	return f.logs.FilterLevelExact(zapcore.ErrorLevel).Len()
}

func newProduct(t *testing.T, name, price string) *product.Product {
	t.Helper()
	p, err := product.New(name, shared.MustParseMoney(price))
	require.NoError(t, err)
	return p
}

func TestGetOrderByIDNotFoundLogsOnce(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.GetOrderByID(context.Background(), "never-created")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Equal(t, 1, f.errorLogs())
}

func TestCreateOrderScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget, gadget := newProduct(t, "Widget", "9.99"), newProduct(t, "Gadget", "5.00")

	o, err := f.svc.CreateOrder(ctx, []*product.Product{widget, gadget})
	require.NoError(t, err)
	require.Len(t, o.Products(), 2)
	assert.Equal(t, "14.99", o.TotalAmount().String())
	assert.Equal(t, 1, f.logs.FilterMessage("Order created with ID: "+o.ID()).Len())

	again, err := f.svc.AddProductsToOrder(ctx, o.ID(), []*product.Product{widget})
	require.NoError(t, err)
	assert.Len(t, again.Products(), 2)
	assert.Equal(t, "14.99", again.TotalAmount().String())

	stored, err := f.svc.GetOrderByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, "14.99", stored.TotalAmount().String())
	assert.Zero(t, f.errorLogs())
}

func TestCreateOrderDeduplicatesInput(t *testing.T) {
	f := newFixture(t)
	widget := newProduct(t, "Widget", "9.99")

	o, err := f.svc.CreateOrder(context.Background(), []*product.Product{widget, widget})
	require.NoError(t, err)
	assert.Len(t, o.Products(), 1)
	assert.Equal(t, "9.99", o.TotalAmount().String())
}

func TestCreateOrderRejectsNilProduct(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.CreateOrder(context.Background(), []*product.Product{nil})
	assert.Nil(t, o)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, 1, f.errorLogs())
	assert.Zero(t, f.store.OrderCount())
}

func TestSharedProductAcrossOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := newProduct(t, "Widget", "9.99")

	first, err := f.svc.CreateOrder(ctx, []*product.Product{widget})
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, []*product.Product{widget, newProduct(t, "Gadget", "5")})
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.ProductCount())

	deleted, err := f.svc.DeleteOrder(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), deleted.ID())
	assert.Equal(t, 2, f.store.ProductCount())

	remaining, err := f.svc.GetOrderByID(ctx, second.ID())
	require.NoError(t, err)
	assert.True(t, remaining.ContainsProduct(widget.ID()))
}

func TestDeleteUnknownOrder(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.DeleteOrder(context.Background(), "missing")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Equal(t, 1, f.errorLogs())
}

func TestAddProductsToUnknownOrder(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.AddProductsToOrder(context.Background(), "missing", []*product.Product{newProduct(t, "Widget", "1")})
	assert.Nil(t, o)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Zero(t, f.store.ProductCount())
}

func TestUpdateOrderRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := newProduct(t, "Widget", "9.99")
	o, err := f.svc.CreateOrder(ctx, []*product.Product{widget})
	require.NoError(t, err)

	loaded, err := f.svc.GetOrderByID(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Products()[0].ChangePrice(shared.MustParseMoney("20.00")))

	updated, err := f.svc.UpdateOrder(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, "20.00", updated.TotalAmount().String())

	stored, err := f.svc.GetOrderByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, "20.00", stored.TotalAmount().String())
	assert.Equal(t, "20.00", stored.Products()[0].Price().String())
}

func TestUpdateNeverStoredOrder(t *testing.T) {
	f := newFixture(t)
	o, err := order.NewBuilder().Build()
	require.NoError(t, err)

	updated, err := f.svc.UpdateOrder(context.Background(), o)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = f.svc.UpdateOrder(context.Background(), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCreateFromProductIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget := newProduct(t, "Widget", "9.99")
	require.NoError(t, memory.NewProductRepository(f.store).Add(ctx, widget))

	o, err := f.svc.CreateOrderFromProductIDs(ctx, []string{widget.ID(), widget.ID()})
	require.NoError(t, err)
	assert.Equal(t, []string{widget.ID()}, o.ProductIDs())

	_, err = f.svc.CreateOrderFromProductIDs(ctx, []string{"unknown"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, err = f.svc.AddProductIDsToOrder(ctx, o.ID(), []string{"unknown"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestRemoveProductFromOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widget, gadget := newProduct(t, "Widget", "9.99"), newProduct(t, "Gadget", "5.00")
	o, err := f.svc.CreateOrder(ctx, []*product.Product{widget, gadget})
	require.NoError(t, err)

	updated, err := f.svc.RemoveProductFromOrder(ctx, o.ID(), widget.ID())
	require.NoError(t, err)
	assert.Equal(t, "5.00", updated.TotalAmount().String())
	assert.Equal(t, 2, f.store.ProductCount())

	_, err = f.svc.RemoveProductFromOrder(ctx, o.ID(), widget.ID())
	assert.ErrorIs(t, err, order.ErrProductNotInOrder)
}

func TestReplaceOrderProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	products := memory.NewProductRepository(f.store)
	widget, gadget, gizmo := newProduct(t, "Widget", "9.99"), newProduct(t, "Gadget", "5.00"), newProduct(t, "Gizmo", "1.01")
	for _, p := range []*product.Product{widget, gadget, gizmo} {
		require.NoError(t, products.Add(ctx, p))
	}
	o, err := f.svc.CreateOrderFromProductIDs(ctx, []string{widget.ID(), gadget.ID()})
	require.NoError(t, err)

	updated, err := f.svc.ReplaceOrderProducts(ctx, o.ID(), []string{gizmo.ID(), gadget.ID()})
	require.NoError(t, err)
	assert.Equal(t, []string{gadget.ID(), gizmo.ID()}, updated.ProductIDs())
	assert.Equal(t, "6.01", updated.TotalAmount().String())

	emptied, err := f.svc.ReplaceOrderProducts(ctx, o.ID(), nil)
	require.NoError(t, err)
	assert.Empty(t, emptied.ProductIDs())
	assert.True(t, emptied.TotalAmount().IsZero())
	assert.Equal(t, 3, f.store.ProductCount())

	_, err = f.svc.ReplaceOrderProducts(ctx, "missing", nil)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

type failingQueries struct{ err error }

func (q failingQueries) GetAll(context.Context) ([]*order.Order, error) { return nil, q.err }
func (q failingQueries) GetByID(context.Context, string) (*order.Order, error) {
	return nil, q.err
}

func TestGetAllOrdersFailureReturnsEmptySlice(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := memory.NewStore()
	dbDown := errors.New("connection refused")
	svc := NewApplicationService(
		memory.NewOrderRepository(store),
		failingQueries{err: dbDown},
		memory.NewProductRepository(store),
		memory.NewUnitOfWorkFactory(store, nil, nil),
		zap.New(core),
	)

	orders, err := svc.GetAllOrders(context.Background())
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.ErrorIs(t, err, dbDown)
	assert.False(t, errors.Is(err, order.ErrOrderNotFound))
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func newMockedFixture(t *testing.T) (*fixture, *mocks.MockUnitOfWorkFactory) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	store := memory.NewStore()
	repo := memory.NewOrderRepository(store)
	uow := mocks.NewMockUnitOfWorkFactory(memory.NewUnitOfWorkFactory(store, nil, nil))
	svc := NewApplicationService(repo, repo, memory.NewProductRepository(store), uow, zap.New(core))
	return &fixture{svc: svc, store: store, logs: logs}, uow
}

func TestCommandsRegisterAggregates(t *testing.T) {
	f, uow := newMockedFixture(t)
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, []*product.Product{newProduct(t, "Widget", "1.00")})
	require.NoError(t, err)
	_, err = f.svc.AddProductsToOrder(ctx, o.ID(), []*product.Product{newProduct(t, "Gadget", "2.00")})
	require.NoError(t, err)
	_, err = f.svc.DeleteOrder(ctx, o.ID())
	require.NoError(t, err)

	assert.Equal(t, []mocks.Registration{
		{Kind: "new", AggregateID: o.ID()},
		{Kind: "dirty", AggregateID: o.ID()},
		{Kind: "removed", AggregateID: o.ID()},
	}, uow.Registrations())
	assert.Equal(t, 3, uow.Executions())
}

func TestCommitFailureRollsBack(t *testing.T) {
	f, uow := newMockedFixture(t)
	ctx := context.Background()
	diskFull := errors.New("disk full")
	uow.FailCommit(diskFull)

	o, err := f.svc.CreateOrder(ctx, []*product.Product{newProduct(t, "Widget", "1.00")})
	assert.Nil(t, o)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, 0, f.store.OrderCount())
	assert.Equal(t, 0, f.store.ProductCount())
	assert.Equal(t, 1, f.errorLogs())

	uow.FailCommit(nil)
	o, err = f.svc.CreateOrder(ctx, []*product.Product{newProduct(t, "Widget", "1.00")})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestToResponse(t *testing.T) {
	o, err := order.NewBuilder().AddProduct(newProduct(t, "Widget", "9.99")).CalculateTotal().Build()
	require.NoError(t, err)

	resp := ToResponse(o)
	assert.Equal(t, o.ID(), resp.ID)
	assert.Equal(t, 1, resp.ProductCount)
	assert.Equal(t, "9.99", resp.TotalAmount)
	assert.Equal(t, "Widget", resp.Products[0].Name)
	assert.Nil(t, ToResponse(nil))
}
