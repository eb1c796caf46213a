package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront/config"
	"storefront/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observe 临时把全局 logger 换成 observer
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := log
	t.Cleanup(func() { log = original })
	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)
	return logs
}

func TestGetWithoutInit(t *testing.T) {
	original := log
	defer func() { log = original }()

	log = nil
	require.NotNil(t, Get())
	require.NotNil(t, Named("orders"))
	require.NotNil(t, FromContext(context.Background()))
	Info("nop logger swallows this")
	assert.NoError(t, Sync())
}

func TestFromContextAddsRequestID(t *testing.T) {
	logs := observe(t)

	ctx := persistence.ContextWithRequestID(context.Background(), "req-9")
	FromContext(ctx).Warn("Notification delivery failed")
	FromContext(context.Background()).Info("no request")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

func TestPackageHelpersUseGlobalLogger(t *testing.T) {
	logs := observe(t)

	Debug("d")
	Info("i", zap.String("order_id", "o-1"))
	Warn("w")
	Error("e")
	Named("outbox").Info("named")
	With(zap.Int("attempt", 2)).Info("with")

	var msgs []string
	for _, e := range logs.AllUntimed() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"d", "i", "w", "e", "named", "with"}, msgs)
	assert.Equal(t, "outbox", logs.FilterMessage("named").All()[0].LoggerName)
	assert.Equal(t, "o-1", logs.FilterMessage("i").All()[0].ContextMap()["order_id"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestInitAppliesLevel(t *testing.T) {
	original := log
	defer func() { log = original }()

	require.NoError(t, Init(&config.LogConfig{Level: "warn", Output: "stdout"}, "production"))
	assert.Equal(t, zapcore.WarnLevel, Level())
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	assert.Equal(t, zapcore.DebugLevel, Level())
}

func TestFileOutput(t *testing.T) {
	original := log
	defer func() { log = original }()

	path := filepath.Join(t.TempDir(), "logs", "orders.log")
	require.NoError(t, Init(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}, "production"))

	Info("File logger initialized")
	Error("Order not found", zap.String("order_id", "o-1"))
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Order not found"`)
	assert.Contains(t, string(data), `"order_id":"o-1"`)
}

func TestUnsupportedOutput(t *testing.T) {
	original := log
	defer func() { log = original }()

	err := Init(&config.LogConfig{Level: "info", Output: "syslog"}, "development")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOutput)
	assert.Contains(t, err.Error(), "syslog")
	assert.Same(t, original, log)
}

func TestFileOutputRequiresPath(t *testing.T) {
	err := Init(&config.LogConfig{Level: "info", Output: "file"}, "production")
	assert.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 3, orDefault(3, 10))
	assert.Equal(t, 7, orDefault(-1, 7))
}
