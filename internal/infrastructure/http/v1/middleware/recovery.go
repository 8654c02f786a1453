// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"qfilter/internal/core/apperror"
	appctx "qfilter/internal/core/context"
	"qfilter/pkg/logger"
)

// Recovery turns a panic into an INTERNAL_ERROR for ErrorHandler to render.
// The stack is logged, never sent.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered",
				"path", c.FullPath(),
				"panic", r,
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", r))
			if requestID := appctx.GetRequestID(ctx); requestID != "" {
				appErr = appErr.WithDetail("request_id", requestID)
			}
			_ = c.Error(appErr)
			c.Abort()
		}()
		c.Next()
	}
}
