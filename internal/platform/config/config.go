// Copyright (c) 2026 Penbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, CORS) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Penbook API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Token store (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// TokenTTL bounds the lifetime of an issued token. Zero means tokens live until logout.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"0s"`

	// Listing
	PageSize    int `env:"PAGE_SIZE"     envDefault:"10"`
	MaxPageSize int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	// Cross-Origin Resource Sharing
	AllowedOrigins      []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
	DeployedFrontendURL string   `env:"DEPLOYED_FRONTEND_URL"`

	// Per-IP rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("config: PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	if cfg.MaxPageSize < cfg.PageSize {
		return nil, fmt.Errorf("config: MAX_PAGE_SIZE (%d) must not be below PAGE_SIZE (%d)", cfg.MaxPageSize, cfg.PageSize)
	}

	return cfg, nil
}

// Origins returns the CORS allow-list, including the deployed frontend when configured.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	origins = append(origins, c.AllowedOrigins...)
	if c.DeployedFrontendURL != "" {
		origins = append(origins, c.DeployedFrontendURL)
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
