package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/zetpar/zetpar/internal/dependencies/mocks"
	"github.com/zetpar/zetpar/internal/model"
	"github.com/zetpar/zetpar/internal/services/catalog"
	"github.com/zetpar/zetpar/internal/testutil"
)

// recordingSink captures user-visible messages
type recordingSink struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (s *recordingSink) Success(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes = append(s.successes, msg)
}

func (s *recordingSink) Error(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

func (s *recordingSink) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors)
}

type RegistrySuite struct {
	suite.Suite
	transport *mocks.MockTransport
	clock     *mocks.MockClock
	sink      *recordingSink
	server    *httptest.Server
	registry  *Registry
	ctx       context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.transport = mocks.NewMockTransport()
	s.transport.SetConnected(true)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.sink = &recordingSink{}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("appids")
		fmt.Fprintf(w, `{"%s": {"success": true, "data": {"name": "Title %s"}}}`, id, id)
	}))

	resolver := catalog.New(catalog.Config{BaseURL: s.server.URL}, testutil.NopLogger())
	s.registry = NewRegistry(s.transport, resolver, s.clock, s.sink, testutil.NopLogger())
	s.registry.backoff = 10 * time.Millisecond
	s.ctx = context.Background()
}

func (s *RegistrySuite) TearDownTest() {
	s.server.Close()
}

// StartGame tests

func (s *RegistrySuite) TestStartGameReturnsResolvedName() {
	name, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)
	s.Equal("Title 440", name)
}

func (s *RegistrySuite) TestStartGameBroadcastsActiveSet() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	s.Equal([]model.AppID{440}, s.transport.LastPlayedSet())
}

func (s *RegistrySuite) TestStartGameWhileDisconnected() {
	s.transport.SetConnected(false)

	_, err := s.registry.StartGame(s.ctx, 440)
	s.ErrorIs(err, model.ErrNotConnected)
	s.Empty(s.registry.CurrentGames())
	s.Empty(s.transport.PlayedSets)
}

func (s *RegistrySuite) TestStartGameZeroID() {
	_, err := s.registry.StartGame(s.ctx, 0)
	s.ErrorIs(err, model.ErrInvalidAppID)
}

func (s *RegistrySuite) TestStartReplacesRunningGame() {
	_, err := s.registry.StartGame(s.ctx, 730)
	s.Require().NoError(err)
	_, err = s.registry.StartGame(s.ctx, 570)
	s.Require().NoError(err)

	games := s.registry.CurrentGames()
	s.Require().Len(games, 1)
	s.Equal(model.AppID(570), games[0].ID)
	s.Equal([]model.AppID{570}, s.transport.LastPlayedSet())
}

func (s *RegistrySuite) TestStartGameRollsBackOnBroadcastFailure() {
	s.transport.SetGamesPlayedErr = errors.New("broken pipe")

	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().Error(err)

	s.transport.SetGamesPlayedErr = nil
	s.Empty(s.registry.CurrentGames())
}

// StopGame tests

func (s *RegistrySuite) TestStartThenStopLeavesEmpty() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	name, err := s.registry.StopGame(s.ctx, 440)
	s.Require().NoError(err)
	s.Equal("Title 440", name)

	s.Empty(s.registry.CurrentGames())
	s.Empty(s.transport.LastPlayedSet())
}

func (s *RegistrySuite) TestStopGameNotRunning() {
	before := len(s.transport.PlayedSets)

	_, err := s.registry.StopGame(s.ctx, 440)
	s.ErrorIs(err, model.ErrGameNotRunning)
	s.Len(s.transport.PlayedSets, before) // no broadcast on a no-op
}

// StopAllGames tests

func (s *RegistrySuite) TestStopAllGamesIsIdempotent() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	s.registry.StopAllGames(s.ctx)
	s.registry.StopAllGames(s.ctx)

	s.Empty(s.registry.CurrentGames())
	s.Empty(s.transport.LastPlayedSet())
}

func (s *RegistrySuite) TestStopAllGamesWhileDisconnected() {
	s.transport.SetConnected(false)

	s.registry.StopAllGames(s.ctx)
	s.Empty(s.transport.PlayedSets) // nothing to broadcast to
}

// Snapshot tests

func (s *RegistrySuite) TestCurrentGamesFormatsTimes() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	s.clock.Advance(1*time.Hour + 2*time.Minute + 3*time.Second)

	games := s.registry.CurrentGames()
	s.Require().Len(games, 1)
	s.Equal("12:00:00", games[0].StartedAt)
	s.Equal("01:02:03", games[0].Elapsed)
}

func (s *RegistrySuite) TestCurrentGamesEmptyWhenDisconnected() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	s.transport.SetConnected(false)
	s.Empty(s.registry.CurrentGames())
}

func (s *RegistrySuite) TestSessionInfoOffline() {
	s.transport.SetConnected(false)

	info := s.registry.SessionInfo()
	s.False(info.Connected)
	s.Equal("offline", info.Status())
	s.Empty(info.Username)
}

func (s *RegistrySuite) TestSessionInfoOnline() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	info := s.registry.SessionInfo()
	s.True(info.Connected)
	s.Equal("online", info.Status())
	s.Equal("tester", info.Username)
	s.Equal(1, info.GamesRunning)
}

// MaintainConnection tests

func (s *RegistrySuite) TestMaintainConnectionRefreshesActiveSet() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 50*time.Millisecond)
	defer cancel()
	s.registry.MaintainConnection(ctx)

	sets := s.transport.PlayedSets
	s.Equal([]model.AppID{440}, sets[len(sets)-1])
	s.Equal(1, s.transport.PumpCalls)
}

func (s *RegistrySuite) TestMaintainConnectionBacksOffOnPumpFailure() {
	s.transport.PumpErr = errors.New("connection lost")

	start := time.Now()
	s.registry.MaintainConnection(s.ctx)

	s.GreaterOrEqual(time.Since(start), 10*time.Millisecond)
	s.Equal(1, s.sink.errorCount())
}

// Logout tests

func (s *RegistrySuite) TestLogoutStopsGamesFirst() {
	_, err := s.registry.StartGame(s.ctx, 440)
	s.Require().NoError(err)

	s.registry.Logout(s.ctx)

	s.Equal(1, s.transport.LogoutCalls)
	s.Empty(s.transport.LastPlayedSet())
	s.Empty(s.registry.CurrentGames())
}

func (s *RegistrySuite) TestLogoutWhileDisconnectedIsNoOp() {
	s.transport.SetConnected(false)

	s.registry.Logout(s.ctx)
	s.Zero(s.transport.LogoutCalls)
}

// formatElapsed tests

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{1*time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25*time.Hour + 1*time.Minute + 1*time.Second, "25:01:01"},
		{-time.Second, "00:00:00"},
	}
	for _, c := range cases {
		if got := formatElapsed(c.d); got != c.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
