// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"qfilter/internal/core/apperror"
	appctx "qfilter/internal/core/context"
	"qfilter/pkg/filters"
	"qfilter/pkg/filters/query"
	"qfilter/pkg/logger"
)

// CleanedArgsKey is the gin context key of the validated filter values.
const CleanedArgsKey = "cleaned_args"

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// Error registers err on the Gin context and aborts the request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Filter validates the query string against schema and narrows coll.
// The validated values are published on the request context and under
// CleanedArgsKey. On failure the error is registered and ok is false.
func (h *BaseHandler) Filter(c *gin.Context, schema *filters.Definition, coll query.Collection, opts ...filters.InstanceOption) (query.Collection, bool) {
	ctx := c.Request.Context()
	opts = append([]filters.InstanceOption{filters.WithRequest(c.Request)}, opts...)

	filtered, res, err := filters.FilterQueryset(ctx, c.Request.URL.Query(), coll, schema, opts...)
	if err != nil {
		appErr := apperror.From(err)
		if apperror.IsValidation(appErr) {
			logger.Info(ctx, "filter parameters rejected",
				"schema", schema.Name(),
				"fields", errorFields(appErr.Details),
			)
		}
		h.Error(c, appErr)
		return nil, false
	}

	args := appctx.CleanedArgs(res.Values())
	c.Request = c.Request.WithContext(appctx.WithCleanedArgs(ctx, args))
	c.Set(CleanedArgsKey, args)
	return filtered, true
}

func errorFields(details map[string]any) []string {
	names := make([]string, 0, len(details))
	for name := range details {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
