package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "storefront", Version: "test", Env: "test"},
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{Type: "memory"},
		Log:      config.LogConfig{Level: "error"},
		Notifier: config.NotifierConfig{Logging: true},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestBuildMemoryApp(t *testing.T) {
	app, err := NewBuilder(memoryConfig()).Build(context.Background())
	require.NoError(t, err)
	assert.True(t, app.backend.IsMemory())
	assert.Empty(t, app.backend.HealthChecks())

	// logging + metrics observers
	assert.Len(t, app.notifications.Notifier.Observers(), 2)

	rec := httptest.NewRecorder()
	app.GetServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"name":"Widget","price":"1.50"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")
	app.GetServer().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSQLiteBackendHasDatabaseCheck(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database = config.DatabaseConfig{Type: "sqlite", Path: ":memory:", AutoMigrate: true}

	backend, err := OpenBackend(cfg)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsMemory())
	check, ok := backend.HealthChecks()["database"]
	require.True(t, ok)
	assert.NoError(t, check(context.Background()))
}

func TestNotificationsWithoutSinks(t *testing.T) {
	cfg := memoryConfig()
	cfg.Notifier.Logging = false
	// enabled sinks are ignored when the outbox worker owns them
	cfg.Notifier.Redis = config.RedisConfig{Enabled: true, Addr: "127.0.0.1:1"}

	n, err := NewNotifications(context.Background(), cfg, nil, false)
	require.NoError(t, err)
	assert.Empty(t, n.Notifier.Observers())
	assert.Empty(t, n.HealthChecks())
	assert.NoError(t, n.Close())
}

func TestNotificationsKafkaRequiresBrokers(t *testing.T) {
	cfg := memoryConfig()
	cfg.Notifier.Kafka = config.KafkaConfig{Enabled: true, Topic: "orders"}

	_, err := NewNotifications(context.Background(), cfg, nil, true)
	assert.ErrorContains(t, err, "no brokers configured")
}
