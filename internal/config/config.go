package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the notebook-order service.
// Environment variables are parsed from the NOTEBOOK_ prefix, e.g.
// NOTEBOOK_DB_DRIVER, NOTEBOOK_HTTP_PORT.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// DBDriver selects the persisted store backend: "postgres" or "sqlite".
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"notebook.db"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Execution queue dispatcher cadence. Only meaningful with the
	// postgres backend, which is the only one with concurrent writers
	// worth racing FOR UPDATE SKIP LOCKED against.
	ExecQueueEnabled  bool          `envconfig:"EXECQUEUE_ENABLED" default:"true"`
	ExecQueueBatch    int           `envconfig:"EXECQUEUE_BATCH" default:"10"`
	ExecQueueInterval time.Duration `envconfig:"EXECQUEUE_INTERVAL" default:"1s"`

	HealthProbeTimeout time.Duration `envconfig:"HEALTH_PROBE_TIMEOUT" default:"2s"`
}

// ResolveDefaults validates DBDriver and derives backend-specific requirements.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("NOTEBOOK_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("NOTEBOOK_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing environment variables prefixed NOTEBOOK_.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("NOTEBOOK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("execqueue_enabled", cfg.ExecQueueEnabled).
		Msg("configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a Config suitable for unit tests: in-memory SQLite,
// dispatcher disabled since the in-memory backend has no concurrent writer
// to protect rows from.
func NewForTesting() *Config {
	return &Config{
		Environment:        EnvTesting,
		DBDriver:           "sqlite",
		SQLitePath:         ":memory:",
		HTTPPort:           8080,
		ExecQueueEnabled:   false,
		ExecQueueBatch:     10,
		ExecQueueInterval:  time.Second,
		HealthProbeTimeout: 2 * time.Second,
	}
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
