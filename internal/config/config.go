package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"mesa-settle/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library. The
// nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. See the individual types in the configs package for
// default values and options. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev). It is
	// attached to every log record.
	Env string `env:"ENV" envDefault:"prod"`

	// HTTP holds configuration for the HTTP server. Environment variables
	// prefixed with HTTP_ will populate this struct.
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger. Environment variables prefixed
	// with LOG_ will populate this struct.
	Log configs.Logger `envPrefix:"LOG_"`

	// Psql configures the PostgreSQL connection. Environment variables
	// prefixed with PSQL_ will populate this struct.
	Psql configs.Postgres `envPrefix:"PSQL_"`

	// Store selects the ledger backend (STORE_ prefix).
	Store configs.Store `envPrefix:"STORE_"`

	Registry         configs.Registry         `envPrefix:"REGISTRY_"`
	ImpressionLogger configs.ImpressionLogger `envPrefix:"IMPRESSION_LOGGER_"`
	Vault            configs.Vault            `envPrefix:"VAULT_"`
	Funding          configs.Funding          `envPrefix:"FUNDING_"`
}

// Load reads configuration from environment variables into a Config. If
// parsing fails, an error is returned. All fields are loaded with their
// specified defaults when no environment variable is provided. The vault
// split and dust policy are validated here so a misconfigured split never
// reaches the ledger.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Vault.Split().Validate(); err != nil {
		return cfg, fmt.Errorf("vault split: %w", err)
	}
	if _, err := cfg.Vault.Dust(); err != nil {
		return cfg, fmt.Errorf("vault dust policy: %w", err)
	}
	return cfg, nil
}
