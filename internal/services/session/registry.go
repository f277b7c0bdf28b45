// Package session owns the set of games currently reported as being
// played, and the control loops that keep the platform session alive.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/zetpar/zetpar/internal/dependencies/clock"
	"github.com/zetpar/zetpar/internal/model"
	"github.com/zetpar/zetpar/internal/services/catalog"
	"github.com/zetpar/zetpar/internal/steam"
)

// Sink receives user-visible status messages
type Sink interface {
	Success(msg string)
	Error(msg string)
}

// Registry tracks the active-game set against an authenticated
// transport. Every mutating call re-broadcasts the full set to the
// transport before returning, so the platform's view of "being played"
// always matches the registry's key set. All methods are safe for
// concurrent use.
type Registry struct {
	transport steam.Transport
	resolver  *catalog.Resolver
	clock     clock.Clock
	sink      Sink
	logger    *slog.Logger
	backoff   time.Duration

	mu    sync.Mutex
	games map[model.AppID]*model.GameSession
}

// NewRegistry creates a Registry over an authenticated transport
func NewRegistry(
	transport steam.Transport,
	resolver *catalog.Resolver,
	clk clock.Clock,
	sink Sink,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		transport: transport,
		resolver:  resolver,
		clock:     clk,
		sink:      sink,
		logger:    logger,
		backoff:   time.Second,
		games:     make(map[model.AppID]*model.GameSession),
	}
}

// StartGame begins reporting appID as being played and returns its
// resolved display name. Any games already running are stopped first:
// the platform only credits playtime to one title at a time.
func (r *Registry) StartGame(ctx context.Context, appID model.AppID) (string, error) {
	if appID == 0 {
		return "", model.ErrInvalidAppID
	}
	if !r.transport.Connected() {
		return "", model.ErrNotConnected
	}

	r.StopAllGames(ctx)

	name := r.resolver.ResolveName(ctx, appID)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[appID] = &model.GameSession{
		AppID:     appID,
		Name:      name,
		StartedAt: r.clock.Now(),
	}

	if err := r.broadcastLocked(ctx); err != nil {
		delete(r.games, appID)
		r.logger.Error("failed to start game",
			slog.Uint64("app_id", uint64(appID)),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to start game: %w", err)
	}

	r.logger.Info("game started",
		slog.Uint64("app_id", uint64(appID)),
		slog.String("name", name),
	)
	return name, nil
}

// StopGame stops reporting appID and returns its display name
func (r *Registry) StopGame(ctx context.Context, appID model.AppID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[appID]
	if !ok {
		return "", model.ErrGameNotRunning
	}
	delete(r.games, appID)

	if err := r.broadcastLocked(ctx); err != nil {
		r.logger.Error("failed to stop game",
			slog.Uint64("app_id", uint64(appID)),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to stop game: %w", err)
	}

	r.logger.Info("game stopped",
		slog.Uint64("app_id", uint64(appID)),
		slog.String("name", game.Name),
	)
	return game.Name, nil
}

// StopAllGames clears the active-game set. Idempotent, never fails;
// broadcast problems are logged and swallowed.
func (r *Registry) StopAllGames(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.games)
	if r.transport.Connected() {
		if err := r.broadcastLocked(ctx); err != nil {
			r.logger.Warn("failed to clear active games", slog.String("error", err.Error()))
		}
	}
}

// CurrentGames returns display snapshots of the running games, sorted
// by app ID. Empty when disconnected.
func (r *Registry) CurrentGames() []model.GameInfo {
	if !r.transport.Connected() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	games := make([]model.GameInfo, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, model.GameInfo{
			ID:        g.AppID,
			Name:      g.Name,
			StartedAt: g.StartedAt.Format("15:04:05"),
			Elapsed:   formatElapsed(r.clock.Since(g.StartedAt)),
		})
	}
	slices.SortFunc(games, func(a, b model.GameInfo) int {
		return int(a.ID) - int(b.ID)
	})
	return games
}

// SessionInfo returns a display snapshot of the platform session
func (r *Registry) SessionInfo() model.SessionInfo {
	if !r.transport.Connected() {
		return model.SessionInfo{}
	}

	r.mu.Lock()
	running := len(r.games)
	r.mu.Unlock()

	user := r.transport.User()
	return model.SessionInfo{
		Connected:    true,
		Username:     user.Name,
		SteamID:      user.SteamID,
		GamesRunning: running,
	}
}

// MaintainConnection re-broadcasts the active-game set and runs one
// blocking pass of the transport's event pump. Callers are expected to
// invoke it in a loop; on pump failure it backs off before returning
// so the loop does not spin against a dead connection.
func (r *Registry) MaintainConnection(ctx context.Context) {
	r.mu.Lock()
	ids := r.activeIDsLocked()
	r.mu.Unlock()

	if len(ids) > 0 && r.transport.Connected() {
		if err := r.transport.SetGamesPlayed(ctx, ids); err != nil {
			r.logger.Warn("failed to refresh active games", slog.String("error", err.Error()))
		}
	}

	if err := r.transport.RunEventPump(ctx); err != nil && ctx.Err() == nil {
		r.logger.Error("event pump failed", slog.String("error", err.Error()))
		r.sink.Error(fmt.Sprintf("Session maintenance error: %v", err))
		select {
		case <-ctx.Done():
		case <-time.After(r.backoff):
		}
	}
}

// Logout stops all games and closes the session. Best-effort.
func (r *Registry) Logout(ctx context.Context) {
	if !r.transport.Connected() {
		return
	}

	r.StopAllGames(ctx)
	if err := r.transport.Logout(ctx); err != nil {
		r.logger.Warn("logout failed", slog.String("error", err.Error()))
		return
	}
	r.logger.Info("logged out")
	r.sink.Success("Logged out of Steam")
}

// broadcastLocked reports the current key set to the transport.
// Callers must hold r.mu.
func (r *Registry) broadcastLocked(ctx context.Context) error {
	return r.transport.SetGamesPlayed(ctx, r.activeIDsLocked())
}

func (r *Registry) activeIDsLocked() []model.AppID {
	ids := make([]model.AppID, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// formatElapsed renders a duration as HH:MM:SS; sessions longer than a
// day keep counting hours.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
