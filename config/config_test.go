package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "storefront", cfg.App.Name)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, time.Second, cfg.Worker.PollInterval)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  env: production
database:
  type: sqlite
  path: ":memory:"
notifier:
  redis:
    enabled: true
    channel: orders
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.True(t, cfg.Notifier.Redis.Enabled)
	assert.Equal(t, "orders", cfg.Notifier.Redis.Channel)
	assert.Equal(t, "debug", cfg.Log.Level)
}
