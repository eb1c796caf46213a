package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"storefront/api/health"
	apiorder "storefront/api/order"
	apiproduct "storefront/api/product"
	"storefront/application/notify"
	orderapp "storefront/application/order"
	productapp "storefront/application/product"
	"storefront/config"
	"storefront/infrastructure/persistence/memory"
	"storefront/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) Update(_ context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

type testServer struct {
	handler http.Handler
	events  *recorder
}

func newTestServer(t *testing.T, checkers map[string]health.Checker) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "storefront", Version: "test", Env: "test"},
		Database: config.DatabaseConfig{Type: "memory"},
		CORS:     config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}, MaxAge: 600},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	store := memory.NewStore()
	orders := memory.NewOrderRepository(store)
	products := memory.NewProductRepository(store)
	uow := memory.NewUnitOfWorkFactory(store, nil, nil)

	rec := &recorder{}
	n := notify.NewNotifier(nil)
	n.Attach(rec)

	router := NewRouter(cfg, metrics.New("api"),
		health.NewController(cfg, checkers),
		apiproduct.NewController(productapp.NewApplicationService(products, products, uow, nil), n),
		apiorder.NewController(orderapp.NewApplicationService(orders, orders, products, uow, nil), n),
	)
	router.SetupRoutes()
	return &testServer{handler: router.GetEngine(), events: rec}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *testServer) createProduct(t *testing.T, name, price string) productapp.ProductResponse {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/products", map[string]string{"name": name, "price": price})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p productapp.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	widget := s.createProduct(t, "Widget", "9.99")
	gadget := s.createProduct(t, "Gadget", "5.00")
	assert.Equal(t, "9.99", widget.Price)

	rec, env := s.do(t, http.MethodPost, "/api/v1/orders", map[string][]string{"product_ids": {widget.ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var o orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "9.99", o.TotalAmount)

	rec, env = s.do(t, http.MethodPost, "/api/v1/orders/"+o.ID+"/products", map[string][]string{"product_ids": {gadget.ID, widget.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "14.99", o.TotalAmount)
	assert.Equal(t, 2, o.ProductCount)

	rec, env = s.do(t, http.MethodDelete, "/api/v1/orders/"+o.ID+"/products/"+widget.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "5.00", o.TotalAmount)

	rec, env = s.do(t, http.MethodPut, "/api/v1/orders/"+o.ID, map[string][]string{"product_ids": {widget.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "9.99", o.TotalAmount)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/orders/"+o.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/orders/"+o.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error)

	// products survive order deletion
	rec, _ = s.do(t, http.MethodGet, "/api/v1/products/"+widget.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{
		"product.created", "product.created",
		"order.created", "order.products_added", "order.product_removed",
		"order.updated", "order.deleted",
	}, s.events.names())
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	p := s.createProduct(t, "Widget", "1.00")

	rec, env := s.do(t, http.MethodPut, "/api/v1/products/"+p.ID, map[string]interface{}{"name": "Widget XL", "price": 2.5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Widget XL", p.Name)
	assert.Equal(t, "2.50", p.Price)

	rec, env = s.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []productapp.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/products/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, env = s.do(t, http.MethodDelete, "/api/v1/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error)
}

func TestCallerInputErrors(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(t, http.MethodPost, "/api/v1/products", map[string]string{"name": "Widget", "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)

	rec, env = s.do(t, http.MethodPost, "/api/v1/products", map[string]string{"name": "Widget", "price": "0.005"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/products", map[string]string{"price": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/orders", map[string][]string{"product_ids": {"missing"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/orders/x/products", map[string][]string{"product_ids": {}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, s.events.names())
}

func TestHealthReportsFailingDependency(t *testing.T) {
	s := newTestServer(t, map[string]health.Checker{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})

	rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMiddlewareStack(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	s.do(t, http.MethodGet, "/api/v1/products", nil)
	rec, _ = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/products"`)
}
