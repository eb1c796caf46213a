// Package ctxutil 把 gin 请求上下文转换为应用服务使用的 context
package ctxutil

import (
	"context"

	"storefront/api/response"
	"storefront/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// Context returns the request context carrying the request id set by middleware
func Context(c *gin.Context) context.Context {
	return persistence.ContextWithRequestID(c.Request.Context(), response.GetRequestID(c))
}
