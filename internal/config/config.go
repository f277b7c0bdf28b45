package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage type constants
const (
	StorageTypeFile  = "file"
	StorageTypeRedis = "redis"
)

// Config holds application configuration, loaded from the environment
// and optionally overridden by CLI flags.
type Config struct {
	// DataDir is where profiles and sentry files live. Defaults to
	// ~/.zetpar when unset.
	DataDir string `env:"ZETPAR_DATA_DIR"`

	// StorageType selects the profile store backend ("file" or "redis")
	StorageType string `env:"ZETPAR_STORAGE_TYPE" envDefault:"file"`

	// RedisURL is the redis connection URL, required when StorageType is redis
	RedisURL string `env:"ZETPAR_REDIS_URL" envDefault:"redis://localhost:6379"`

	// CatalogURL is the store catalog endpoint used to resolve game names
	CatalogURL string `env:"ZETPAR_CATALOG_URL" envDefault:"https://store.steampowered.com/api/appdetails"`

	// CatalogLocale is the locale requested for game names
	CatalogLocale string `env:"ZETPAR_CATALOG_LOCALE" envDefault:"english"`

	// RefreshInterval is how often the dashboard view is redrawn
	RefreshInterval time.Duration `env:"ZETPAR_REFRESH_INTERVAL" envDefault:"5s"`
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	return cfg, nil
}

// ProfilesPath returns the path of the persisted profile file
func (c *Config) ProfilesPath() string {
	return filepath.Join(c.DataDir, "profiles", "profiles.json")
}

// SentryDir returns the directory holding per-account sentry files
func (c *Config) SentryDir() string {
	return filepath.Join(c.DataDir, "sentry")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zetpar"
	}
	return filepath.Join(home, ".zetpar")
}
