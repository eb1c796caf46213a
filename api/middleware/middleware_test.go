package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/api/response"
	"storefront/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func do(engine *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestIDIsKeptOrGenerated(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, response.GetRequestID(c)) })

	rec := do(engine, http.MethodGet, "/x", map[string]string{RequestIDHeader: "abc"})
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc", rec.Body.String())

	rec = do(engine, http.MethodGet, "/x", nil)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), rec.Body.String())
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	log, logs := observed()
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), RecoveryMiddleware(log))
	engine.GET("/boom", func(c *gin.Context) { panic("secret state") })

	rec := do(engine, http.MethodGet, "/boom", map[string]string{RequestIDHeader: "req-1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error)
	assert.Equal(t, "req-1", body.RequestID)
	assert.NotContains(t, rec.Body.String(), "secret state")

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "secret state", entries[0].ContextMap()["panic"])
}

func TestLoggingLevelFollowsStatus(t *testing.T) {
	log, logs := observed()
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), LoggingMiddleware(log))
	engine.GET("/orders/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	do(engine, http.MethodGet, "/orders/o-1?verbose=1", nil)
	do(engine, http.MethodGet, "/orders/missing", nil)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/orders/:id", entries[0].ContextMap()["route"])
	assert.Equal(t, "verbose=1", entries[0].ContextMap()["query"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	log, logs := observed()
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}, log))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/x", nil).Code)

	rec := do(engine, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode(t, rec).Error)
	assert.Equal(t, 1, logs.FilterMessage("Rate limit exceeded").Len())
}

func TestRateLimitDisabled(t *testing.T) {
	engine := gin.New()
	engine.Use(RateLimitMiddleware(&config.RateLimitConfig{Enabled: false, Rate: 0.001, Burst: 1}, nil))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/x", nil).Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep.Store(now.UnixNano())

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	now = now.Add(clientIdleTTL / 2)
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Len())

	// 10.0.0.1 已空闲超过 TTL，10.0.0.2 还没有
	now = now.Add(clientIdleTTL/2 + time.Second)
	assert.True(t, rl.Allow("10.0.0.3"))
	assert.Equal(t, 2, rl.Len())
	_, ok := rl.clients.Load("10.0.0.1")
	assert.False(t, ok)
}

func TestCORS(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowOrigins:     []string{"https://shop.example"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	engine := gin.New()
	engine.Use(CORSMiddleware(cfg))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := do(engine, http.MethodOptions, "/x", map[string]string{"Origin": "https://shop.example"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "X-Request-ID, Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	rec = do(engine, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
