package api

import (
	"net/http"

	"storefront/api/middleware"
	"storefront/config"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ControllerRegister is implemented by every controller
type ControllerRegister interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	metrics     *metrics.Metrics
	controllers []ControllerRegister
}

// NewRouter Create route configuration; m may be nil when metrics are disabled
func NewRouter(cfg *config.Config, m *metrics.Metrics, controllers ...ControllerRegister) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	httpLog := logger.Named("http")

	// order matters
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware(httpLog))
	engine.Use(middleware.LoggingMiddleware(httpLog))
	if m != nil {
		engine.Use(m.Middleware())
	}
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit, httpLog))

	return &Router{
		engine:      engine,
		config:      cfg,
		metrics:     m,
		controllers: controllers,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	for _, c := range r.controllers {
		c.RegisterRoutes(apiGroup)
	}

	if r.metrics != nil {
		path := r.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(r.metrics.Handler()))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
