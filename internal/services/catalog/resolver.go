// Package catalog resolves app IDs to display names via the public
// store catalog endpoint.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/zetpar/zetpar/internal/model"
)

// Config holds resolver settings
type Config struct {
	// BaseURL is the appdetails endpoint
	BaseURL string
	// Locale is the language requested for names
	Locale string
	// Timeout bounds a single catalog lookup
	Timeout time.Duration
}

// DefaultConfig returns default catalog settings
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://store.steampowered.com/api/appdetails",
		Locale:  "english",
		Timeout: 10 * time.Second,
	}
}

// Resolver maps app IDs to display names, caching successful lookups
// for the lifetime of the process. Resolution never fails outward: any
// lookup problem yields a synthetic "Game <id>" name, which is not
// cached so a later call can still resolve the real name.
type Resolver struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	cache map[model.AppID]string
}

// New creates a Resolver
func New(cfg Config, logger *slog.Logger) *Resolver {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultConfig().Locale
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Resolver{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		cache:      make(map[model.AppID]string),
	}
}

// appDetails is the per-id envelope in the catalog response
type appDetails struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
	} `json:"data"`
}

// ResolveName returns the display name for appID
func (r *Resolver) ResolveName(ctx context.Context, appID model.AppID) string {
	r.mu.RLock()
	name, ok := r.cache[appID]
	r.mu.RUnlock()
	if ok {
		return name
	}

	name, err := r.lookup(ctx, appID)
	if err != nil {
		r.logger.Warn("game name lookup failed",
			slog.Uint64("app_id", uint64(appID)),
			slog.String("error", err.Error()),
		)
		return FallbackName(appID)
	}

	r.mu.Lock()
	r.cache[appID] = name
	r.mu.Unlock()
	return name
}

func (r *Resolver) lookup(ctx context.Context, appID model.AppID) (string, error) {
	query := url.Values{}
	query.Set("appids", fmt.Sprintf("%d", appID))
	query.Set("l", r.cfg.Locale)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	details := map[string]appDetails{}
	if err := json.Unmarshal(body, &details); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	d, ok := details[fmt.Sprintf("%d", appID)]
	if !ok || !d.Success {
		return "", fmt.Errorf("no catalog entry for app %d", appID)
	}
	return d.Data.Name, nil
}

// FallbackName is the synthetic name used when resolution fails
func FallbackName(appID model.AppID) string {
	return fmt.Sprintf("Game %d", appID)
}
