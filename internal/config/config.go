// Package config provides application configuration loaded from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8000"`

	// DatabaseURL is the only recognized storage override. A postgres:// or
	// postgresql:// URL selects PostgreSQL, mysql:// selects MySQL, anything
	// else is treated as a local SQLite file path.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"users.db"`

	// GinMode is passed to gin.SetMode (debug, release, test).
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// "*" allows all origins.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
