package factory

import (
	"errors"
	"io"
	"log/slog"
	"os"

	appconfig "github.com/zetpar/zetpar/internal/config"
	"github.com/zetpar/zetpar/internal/dependencies/clock"
	"github.com/zetpar/zetpar/internal/profile"
	filestore "github.com/zetpar/zetpar/internal/profile/file"
	redisstore "github.com/zetpar/zetpar/internal/profile/redis"
	"github.com/zetpar/zetpar/internal/services/auth"
	"github.com/zetpar/zetpar/internal/services/catalog"
	"github.com/zetpar/zetpar/internal/services/session"
	"github.com/zetpar/zetpar/internal/steam"
	"github.com/zetpar/zetpar/internal/ui"
)

// App contains all wired application components
type App struct {
	// Storage
	Profiles profile.Store

	// External dependencies
	Clock     clock.Clock
	Transport steam.Transport
	Console   *ui.Console

	// Services
	Resolver *catalog.Resolver
	Auth     *auth.Controller
	Registry *session.Registry
}

// Config holds configuration for the application factory
type Config struct {
	// AppConfig is the loaded application configuration (required)
	AppConfig *appconfig.Config
	// Transport is the Steam connection client (required)
	Transport steam.Transport
	// Console is the display sink (optional)
	// If nil, a console on stdout is used
	Console *ui.Console
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if cfg.AppConfig == nil {
		return nil, errors.New("AppConfig is required")
	}
	if cfg.Transport == nil {
		return nil, errors.New("Transport is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	console := cfg.Console
	if console == nil {
		console = ui.New(os.Stdout)
	}

	cipher, err := profile.NewCipher()
	if err != nil {
		return nil, err
	}

	// Create the profile store based on storage type
	var profiles profile.Store
	switch cfg.AppConfig.StorageType {
	case appconfig.StorageTypeFile, "":
		profiles = filestore.New(cfg.AppConfig.ProfilesPath(), cipher, logger)
	case appconfig.StorageTypeRedis:
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.AppConfig.RedisURL
		store, err := redisstore.New(redisCfg, cipher, logger)
		if err != nil {
			return nil, err
		}
		profiles = store
	default:
		return nil, errors.New("invalid StorageType: must be 'file' or 'redis'")
	}

	clk := clock.New()

	resolver := catalog.New(catalog.Config{
		BaseURL: cfg.AppConfig.CatalogURL,
		Locale:  cfg.AppConfig.CatalogLocale,
	}, logger)

	registry := session.NewRegistry(cfg.Transport, resolver, clk, console, logger)
	authController := auth.New(cfg.Transport, cfg.AppConfig.SentryDir(), logger)

	return &App{
		Profiles:  profiles,
		Clock:     clk,
		Transport: cfg.Transport,
		Console:   console,
		Resolver:  resolver,
		Auth:      authController,
		Registry:  registry,
	}, nil
}
