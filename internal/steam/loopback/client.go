// Package loopback implements steam.Transport entirely in-process. It
// simulates the platform's session behavior so the tool can be
// exercised end to end without real account credentials; builds swap
// in a protocol-backed adapter for production use.
package loopback

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/zetpar/zetpar/internal/model"
	"github.com/zetpar/zetpar/internal/steam"
)

const steamIDBase = 76561197960265728 // first individual account ID

// Config holds loopback behavior settings
type Config struct {
	// GuardCode, when non-empty, is the only accepted second-factor
	// code; other codes are rejected with a two-factor mismatch so the
	// retry loop can be exercised. Empty accepts anything.
	GuardCode string
}

// Client is an in-process Transport
type Client struct {
	cfg Config

	mu             sync.Mutex
	connected      bool
	user           steam.User
	played         []model.AppID
	credentialPath string
	disconnect     chan struct{}
}

// Ensure Client implements Transport
var _ steam.Transport = (*Client)(nil)

// New creates a loopback client
func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Login(ctx context.Context, username, password, guardCode string) (steam.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if password == "" {
		return steam.ResultInvalidPassword, nil
	}
	if c.cfg.GuardCode != "" && guardCode != c.cfg.GuardCode {
		return steam.ResultTwoFactorCodeMismatch, nil
	}

	c.connected = true
	c.disconnect = make(chan struct{})
	c.user = steam.User{
		Name:    username,
		SteamID: steamIDFor(username),
	}
	return steam.ResultOK, nil
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) SetGamesPlayed(ctx context.Context, appIDs []model.AppID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return model.ErrNotConnected
	}
	c.played = append(c.played[:0], appIDs...)
	return nil
}

// RunEventPump blocks until the context is cancelled or Logout is
// called. There are no real connection events to process.
func (c *Client) RunEventPump(ctx context.Context) error {
	c.mu.Lock()
	disconnect := c.disconnect
	c.mu.Unlock()

	if disconnect == nil {
		return model.ErrNotConnected
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-disconnect:
		return nil
	}
}

func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false
	c.played = nil
	close(c.disconnect)
	return nil
}

func (c *Client) User() steam.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Client) SetCredentialLocation(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentialPath = path
}

// GamesPlayed returns the currently reported active-game set
func (c *Client) GamesPlayed() []model.AppID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]model.AppID, len(c.played))
	copy(ids, c.played)
	return ids
}

// steamIDFor derives a stable fake 64-bit ID from the account name
func steamIDFor(username string) uint64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return steamIDBase + uint64(h.Sum32())
}
