// Package config loads the service configuration from environment
// variables and validates cross-field constraints the env tags cannot
// express.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full runtime configuration, populated from the environment.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// StoreBackend selects the record store: "postgres" or "memory".
	// The memory backend is volatile and only suitable for local runs.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`

	// DatabaseURL is required with the postgres backend.
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL enables the recipe cache, IP rate limiting and the market
	// event feed. Empty disables all three.
	RedisURL string `env:"REDIS_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"20"`

	EventWorkerEnabled bool   `env:"EVENT_WORKER_ENABLED" envDefault:"true"`
	EventConsumerID    string `env:"EVENT_CONSUMER_ID" envDefault:"simmr-api"`

	// CORSAllowedOrigins is a comma-separated origin allow list. Empty
	// denies all cross-origin callers.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// UsesMemoryStore reports whether the volatile in-memory backend is selected.
func (c *Config) UsesMemoryStore() bool { return c.StoreBackend == "memory" }

// GetCORSAllowedOrigins splits the configured origin list, dropping empty
// entries and surrounding whitespace.
func (c *Config) GetCORSAllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o := strings.TrimSpace(origin); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks constraints spanning multiple fields.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required with the postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// Load parses the environment into a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
