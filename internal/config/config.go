// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the configuration for the accounts service.
type Config struct {
	ServerAddr  string `env:"SERVER_ADDR"  envDefault:":5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`

	MongoURL      string `env:"MONGO_URL"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"accounts"`

	// ClientURL is the origin of the frontend. It is both the allowed
	// CORS origin and the base of the links embedded in emails.
	ClientURL string `env:"CLIENT_URL"`

	AccessTokenSecret  string        `env:"JWT_ACCESS_SECRET"`
	RefreshTokenSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY"       envDefault:"30s"`
	EmailTokenExpiry   time.Duration `env:"JWT_EMAIL_ACCESS_EXPIRY" envDefault:"15m"`
	TokenIssuer        string        `env:"JWT_ISSUER"              envDefault:"accounts-api"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// IsDevelopment reports whether the service runs in development mode.
// Refresh cookies are only marked Secure outside of it.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURL == "" {
		return fmt.Errorf("missing MONGO_URL environment variable")
	}
	if c.ClientURL == "" {
		return fmt.Errorf("missing CLIENT_URL environment variable")
	}
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("missing JWT_ACCESS_SECRET environment variable")
	}
	if c.RefreshTokenSecret == "" {
		return fmt.Errorf("missing JWT_REFRESH_SECRET environment variable")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return nil
}
