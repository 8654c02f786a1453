package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// config is the service configuration, read from the environment after
// an optional .env file.
type config struct {
	Port             string
	Env              string
	LogLevel         string
	Version          string
	DatabaseURL      string
	DBMaxConns       int
	StatementTimeout time.Duration
	ShutdownTimeout  time.Duration
}

func (c config) development() bool {
	return c.Env == "development"
}

func loadConfig() config {
	// A missing .env file is fine; the environment wins over its values
	_ = godotenv.Load()

	cfg := config{
		Port:             getEnv("APP_PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Version:          getEnv("APP_VERSION", "dev"),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 25),
		StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
	if cfg.Env == "production" {
		cfg.DatabaseURL = mustEnv("DATABASE_URL")
	} else {
		cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
