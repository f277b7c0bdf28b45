package mocks

import (
	"context"
	"sync"

	"github.com/zetpar/zetpar/internal/model"
	"github.com/zetpar/zetpar/internal/steam"
)

// MockTransport is a scripted implementation of steam.Transport for
// testing. Login outcomes are played back from LoginResults in order;
// the last entry repeats once the script is exhausted.
type MockTransport struct {
	mu sync.Mutex

	LoginResults []steam.Result
	LoginErr     error
	ConnectedVal bool
	UserVal      steam.User

	LoginAttempts  int
	GuardCodes     []string
	PlayedSets     [][]model.AppID
	PumpCalls      int
	PumpErr        error
	LogoutCalls    int
	LogoutErr      error
	CredentialPath string

	// SetGamesPlayedErr, when set, is returned by every SetGamesPlayed call
	SetGamesPlayedErr error
}

// Ensure MockTransport implements Transport
var _ steam.Transport = (*MockTransport)(nil)

// NewMockTransport creates a connected transport that accepts any login
func NewMockTransport() *MockTransport {
	return &MockTransport{
		LoginResults: []steam.Result{steam.ResultOK},
		UserVal:      steam.User{Name: "tester", SteamID: 76561198000000000},
	}
}

func (t *MockTransport) Login(ctx context.Context, username, password, guardCode string) (steam.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.GuardCodes = append(t.GuardCodes, guardCode)
	idx := t.LoginAttempts
	t.LoginAttempts++
	if idx >= len(t.LoginResults) {
		idx = len(t.LoginResults) - 1
	}
	result := t.LoginResults[idx]
	if result == steam.ResultOK && t.LoginErr == nil {
		t.ConnectedVal = true
	}
	return result, t.LoginErr
}

func (t *MockTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ConnectedVal
}

func (t *MockTransport) SetGamesPlayed(ctx context.Context, appIDs []model.AppID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]model.AppID, len(appIDs))
	copy(ids, appIDs)
	t.PlayedSets = append(t.PlayedSets, ids)
	return t.SetGamesPlayedErr
}

func (t *MockTransport) RunEventPump(ctx context.Context) error {
	t.mu.Lock()
	t.PumpCalls++
	err := t.PumpErr
	t.mu.Unlock()
	if err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (t *MockTransport) Logout(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.LogoutCalls++
	t.ConnectedVal = false
	return t.LogoutErr
}

func (t *MockTransport) User() steam.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.UserVal
}

func (t *MockTransport) SetCredentialLocation(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.CredentialPath = path
}

// LastPlayedSet returns the most recently broadcast active-game set,
// or nil if SetGamesPlayed has not been called.
func (t *MockTransport) LastPlayedSet() []model.AppID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.PlayedSets) == 0 {
		return nil
	}
	return t.PlayedSets[len(t.PlayedSets)-1]
}

// SetConnected toggles the reported connection state
func (t *MockTransport) SetConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ConnectedVal = connected
}
