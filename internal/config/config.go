// Package config reads the process configuration from the environment,
// optionally seeded by a .env file. All knobs have working defaults so
// a bare `limsctl` talks to a local API out of the box.
package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is everything the CLI needs to construct its clients. It is
// loaded once per invocation and injected; there is no global.
type Config struct {
	API   API   `mapstructure:",squash"`
	Cache Cache `mapstructure:",squash"`
	Log   Log   `mapstructure:",squash"`
}

// API configures the REST transport.
type API struct {
	Addr       string        `mapstructure:"LIMS_API_ADDR" default:"http://127.0.0.1:8080"`
	Timeout    time.Duration `mapstructure:"LIMS_HTTP_TIMEOUT" default:"30s"`
	RetryCount int           `mapstructure:"LIMS_RETRY_COUNT" default:"1"`
}

// Cache configures the query cache policy.
type Cache struct {
	StaleTTL       time.Duration `mapstructure:"LIMS_STALE_TTL" default:"5m"`
	RefetchOnFocus bool          `mapstructure:"LIMS_REFETCH_ON_FOCUS"`
	Workers        int           `mapstructure:"LIMS_WORKERS" default:"4"`
}

// Log configures the process logger. An empty Path logs to the
// console.
type Log struct {
	Level   string `mapstructure:"LOG_LEVEL" default:"info"`
	Path    string `mapstructure:"LOG_PATH"`
	NoColor bool   `mapstructure:"NO_COLOR"`
}

// Load builds the configuration: defaults first, then a .env file if
// one exists, then real environment variables on top.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env just means plain env vars

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
