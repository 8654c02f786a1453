package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"qfilter/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// log is published on the request context for the package-level helpers.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		reqLog := log.WithContext(c.Request.Context())
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		if status >= 500 {
			reqLog.Errorw("http request", fields...)
			return
		}
		reqLog.Infow("http request", fields...)
	}
}
