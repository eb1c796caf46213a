package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"storefront/config"

	"github.com/gin-gonic/gin"
)

// Checker checks one dependency (database, redis...)
type Checker func(ctx context.Context) error

// Controller Health check controller
type Controller struct {
	config    *config.Config
	checkers  map[string]Checker
	timeout   time.Duration
	startTime time.Time
}

// NewController Create health check controller; checkers may be empty (memory backend)
func NewController(cfg *config.Config, checkers map[string]Checker) *Controller {
	if checkers == nil {
		checkers = map[string]Checker{}
	}
	return &Controller{
		config:    cfg,
		checkers:  checkers,
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Backend   string           `json:"backend"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health Complete health check
func (c *Controller) Health(ctx *gin.Context) {
	checks := c.runCheckers(ctx.Request.Context())
	overallStatus := "healthy"
	for _, check := range checks {
		if check.Status != "healthy" {
			overallStatus = "unhealthy"
		}
	}

	resp := HealthResponse{
		Status:    overallStatus,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Backend:   c.config.Database.Type,
		Checks:    checks,
	}

	// Only expose system info in development mode
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		resp.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	ctx.JSON(statusCode, resp)
}

// Liveness Liveness check (Kubernetes liveness)
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness Readiness check (Kubernetes readiness)
func (c *Controller) Readiness(ctx *gin.Context) {
	for name, check := range c.runCheckers(ctx.Request.Context()) {
		if check.Status != "healthy" {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": name + " not available",
			})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (c *Controller) runCheckers(ctx context.Context) map[string]Check {
	names := make([]string, 0, len(c.checkers))
	for name := range c.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]Check, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := c.checkers[name](checkCtx)
		latency := time.Since(start)
		cancel()

		if err != nil {
			checks[name] = Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
			continue
		}
		checks[name] = Check{Status: "healthy", Latency: latency.String()}
	}
	return checks
}
