// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// ListRouteHandler is a filterable read-only resource.
type ListRouteHandler interface {
	List(c *gin.Context)
	Filters(c *gin.Context)
}

// RegisterListRoutes registers the list and filter documentation routes of
// a resource.
//
// Usage:
//
//	handler := handlers.NewListHandler(base, source, schema)
//	RegisterListRoutes(v1.Group("/articles"), handler)
func RegisterListRoutes(group *gin.RouterGroup, handler ListRouteHandler) {
	group.GET("", handler.List)
	group.GET("/filters", handler.Filters)
}
