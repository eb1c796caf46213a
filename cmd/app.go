package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/api"
	"storefront/config"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App 应用程序结构体
type App struct {
	config        *config.Config
	router        *api.Router
	server        *http.Server
	backend       *Backend
	notifications *Notifications
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.close()
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

func (a *App) close() {
	if err := a.notifications.Close(); err != nil {
		logger.Warn("Failed to close notification sinks", zap.Error(err))
	}
	if err := a.backend.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = logger.Sync()
}

// GetServer 获取服务器实例（用于测试）
func (a *App) GetServer() *gin.Engine {
	return a.router.GetEngine()
}
