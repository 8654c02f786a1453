package middleware

import (
	"github.com/gin-gonic/gin"

	"qfilter/internal/core/apperror"
	"qfilter/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		appErr := apperror.From(c.Errors.Last().Err)
		switch {
		case appErr.HTTPStatus >= 500:
			logger.Error(c.Request.Context(), "request failed",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		case appErr.Err != nil:
			logger.Debug(c.Request.Context(), "request rejected",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
	}
}
