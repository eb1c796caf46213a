package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/application/notify"
	"storefront/cmd"
	"storefront/config"
	"storefront/infrastructure/persistence/gormrepo"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Worker.Enabled {
		logger.Info("Outbox worker is disabled by config; exiting")
		return nil
	}
	if cfg.Database.Type == "" || cfg.Database.Type == "memory" {
		logger.Info("Memory backend has no outbox; exiting")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := cmd.OpenBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	notifications, err := cmd.NewNotifications(ctx, cfg, nil, true)
	if err != nil {
		return err
	}
	defer notifications.Close()

	worker, err := gormrepo.NewOutboxWorker(
		gormrepo.NewOutboxRepository(backend.DB),
		notify.NewOutboxPublisher(notifications.Notifier),
		cfg.Worker,
		logger.Get(),
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", cfg.Worker.PollInterval),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
	)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker exited with error: %w", err)
	}

	logger.Info("Outbox worker stopped")
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
