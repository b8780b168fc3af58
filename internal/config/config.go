package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Rajarajeshwaran-2003/eshop/pkg/config"
	pkgvalidator "github.com/Rajarajeshwaran-2003/eshop/pkg/validator"
)

// Config holds all configuration for the storefront browse service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8012" validate:"gte=1,lte=65535"`

	// Upstream catalog API
	CatalogURL   string        `env:"CATALOG_URL" envDefault:"http://localhost:8001" validate:"required,url"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`

	// Browser caching for rendered fragments, in seconds. Zero disables
	// Cache-Control headers.
	CacheMaxAge int `env:"CACHE_MAX_AGE" envDefault:"0" validate:"gte=0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if err := pkgvalidator.Validate(c); err != nil {
		return fmt.Errorf("invalid storefront config: %w", err)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	return nil
}
