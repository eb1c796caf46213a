package cmd

import (
	"context"
	"fmt"
	"net/http"

	"storefront/api"
	"storefront/api/health"
	apiorder "storefront/api/order"
	apiproduct "storefront/api/product"
	orderapp "storefront/application/order"
	productapp "storefront/application/product"
	"storefront/config"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg         *config.Config
	controllers []api.ControllerRegister
	backend     *Backend
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:         cfg,
		controllers: []api.ControllerRegister{},
	}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithBackend uses backend instead of the one selected by database.type
func (b *AppBuilder) WithBackend(backend *Backend) *AppBuilder {
	b.backend = backend
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("backend", b.cfg.Database.Type))

	backend := b.backend
	if backend == nil {
		var err error
		if backend, err = OpenBackend(b.cfg); err != nil {
			return nil, err
		}
	}

	var m *metrics.Metrics
	if b.cfg.Metrics.Enabled {
		m = metrics.New("api")
	}

	// gorm backends publish to redis/kafka through the outbox worker
	notifications, err := NewNotifications(ctx, b.cfg, m, backend.IsMemory())
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	productService := productapp.NewApplicationService(
		backend.Products, backend.ProductQuery, backend.UoWFactory, logger.Get())
	orderService := orderapp.NewApplicationService(
		backend.Orders, backend.OrderQueries, backend.ProductQuery, backend.UoWFactory, logger.Get())

	checkers := map[string]health.Checker{}
	for name, p := range backend.HealthChecks() {
		checkers[name] = p
	}
	for name, p := range notifications.HealthChecks() {
		checkers[name] = p
	}

	controllers := append([]api.ControllerRegister{
		health.NewController(b.cfg, checkers),
		apiproduct.NewController(productService, notifications.Notifier),
		apiorder.NewController(orderService, notifications.Notifier),
	}, b.controllers...)

	router := api.NewRouter(b.cfg, m, controllers...)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:        b.cfg,
		router:        router,
		server:        server,
		backend:       backend,
		notifications: notifications,
	}, nil
}
