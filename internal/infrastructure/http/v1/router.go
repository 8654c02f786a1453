package v1

import (
	"github.com/gin-gonic/gin"

	"qfilter/internal/core/apperror"
	"qfilter/internal/infrastructure/http/v1/handlers"
	"qfilter/internal/infrastructure/http/v1/middleware"
	"qfilter/pkg/filters"
	"qfilter/pkg/logger"
)

// Resource is a filterable collection exposed under /api/v1.
type Resource struct {
	// Path is the route group, e.g. "/articles"
	Path   string
	Source handlers.Source
	Schema *filters.Definition
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// DB is checked by the readiness probe; nil when running without a database
	DB handlers.Pinger

	// Version is reported by /health/info
	Version string

	Resources []Resource
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	// Global middleware (order matters!). Recovery runs inside ErrorHandler
	// so a recovered panic still gets a JSON body.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	baseHandler := handlers.NewBaseHandler()
	for _, res := range cfg.Resources {
		handler := handlers.NewListHandler(baseHandler, res.Source, res.Schema)
		RegisterListRoutes(v1.Group(res.Path), handler)
	}

	router.NoRoute(func(c *gin.Context) {
		baseHandler.Error(c, apperror.NewNotFound("route", c.Request.URL.Path))
	})

	return router
}
