package middleware

import (
	"fmt"

	"storefront/api/response"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware handler panic 转成 500，panic 内容只进日志
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			log.Error("Panic recovered",
				zap.String("request_id", response.GetRequestID(c)),
				zap.String("panic", fmt.Sprint(recovered)),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"))
			response.Abort(c, errors.Internal("an unexpected error occurred"))
		}()
		c.Next()
	}
}
