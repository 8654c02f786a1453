// Package main is the entry point of the qfilter demo API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"qfilter/internal/articles"
	v1 "qfilter/internal/infrastructure/http/v1"
	"qfilter/internal/infrastructure/http/v1/handlers"
	"qfilter/internal/infrastructure/storage/postgres"
	"qfilter/pkg/filters"
	"qfilter/pkg/filters/query/memq"
	"qfilter/pkg/filters/query/sqlq"
	"qfilter/pkg/logger"
)

func main() {
	cfg := loadConfig()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if !cfg.development() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	log.Infow("starting qfilter server", "env", cfg.Env, "version", cfg.Version)

	routerCfg := v1.RouterConfig{
		Logger:  log,
		Version: cfg.Version,
	}

	// --- Articles ---
	var (
		source handlers.Source
		schema *filters.Definition
	)
	if cfg.DatabaseURL != "" {
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
		poolCfg.StatementTimeout = cfg.StatementTimeout

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		pool.LogStats(ctx)

		schema, err = articles.NewSchema(sqlq.NewResolver(pool, articles.AuthorModel.TableName, "id"))
		if err != nil {
			log.Fatalw("invalid articles filter", "error", err)
		}
		source = postgres.NewTable[articles.Row](pool, articles.Model.TableName, articles.Relations)
		routerCfg.DB = pool
	} else {
		authors, list := articles.Sample()
		schema, err = articles.NewSchema(memq.New(memq.FromStructs(authors)...))
		if err != nil {
			log.Fatalw("invalid articles filter", "error", err)
		}
		source = handlers.NewMemorySource(memq.FromStructs(list))
		log.Warn("DATABASE_URL not set, serving built-in sample articles")
	}
	routerCfg.Resources = []v1.Resource{{Path: "/articles", Source: source, Schema: schema}}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
