package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/api/console"
	"storefront/application/notify"
	orderapp "storefront/application/order"
	productapp "storefront/application/product"
	"storefront/cmd"
	"storefront/config"
	"storefront/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Console failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := cmd.OpenBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	// the console attaches its own logging observer
	cfg.Notifier.Logging = false
	notifications, err := cmd.NewNotifications(ctx, cfg, nil, backend.IsMemory())
	if err != nil {
		return err
	}
	defer notifications.Close()

	invoker := console.NewInvoker(
		productapp.NewApplicationService(backend.Products, backend.ProductQuery, backend.UoWFactory, logger.Get()),
		orderapp.NewApplicationService(backend.Orders, backend.OrderQueries, backend.ProductQuery, backend.UoWFactory, logger.Get()),
		notifications.Notifier,
		notify.NewLoggingObserver("console", logger.Named("console")),
		os.Stdin,
		os.Stdout,
	)

	if err := invoker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
