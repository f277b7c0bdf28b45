package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/zetpar/zetpar/internal/dependencies/mocks"
	"github.com/zetpar/zetpar/internal/model"
	"github.com/zetpar/zetpar/internal/services/catalog"
	"github.com/zetpar/zetpar/internal/services/session"
	"github.com/zetpar/zetpar/internal/testutil"
	"github.com/zetpar/zetpar/internal/ui"
)

type DispatcherSuite struct {
	suite.Suite
	transport  *mocks.MockTransport
	registry   *session.Registry
	server     *httptest.Server
	out        *bytes.Buffer
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.transport = mocks.NewMockTransport()
	s.transport.SetConnected(true)

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("appids")
		fmt.Fprintf(w, `{"%s": {"success": true, "data": {"name": "Title %s"}}}`, id, id)
	}))

	s.out = &bytes.Buffer{}
	console := ui.New(s.out)

	resolver := catalog.New(catalog.Config{BaseURL: s.server.URL}, testutil.NopLogger())
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = session.NewRegistry(s.transport, resolver, clk, console, testutil.NopLogger())
	s.dispatcher = NewDispatcher(s.registry, console)
	s.ctx = context.Background()
}

func (s *DispatcherSuite) TearDownTest() {
	s.server.Close()
}

func (s *DispatcherSuite) TestStartCommand() {
	s.True(s.dispatcher.Handle(s.ctx, "start 440"))

	s.Contains(s.out.String(), "Started Title 440")
	s.Equal([]model.AppID{440}, s.transport.LastPlayedSet())
}

func (s *DispatcherSuite) TestStartCommandIsCaseInsensitive() {
	s.True(s.dispatcher.Handle(s.ctx, "  START 440  "))
	s.Contains(s.out.String(), "Started Title 440")
}

func (s *DispatcherSuite) TestStartWithoutArgument() {
	s.True(s.dispatcher.Handle(s.ctx, "start"))
	s.Contains(s.out.String(), "Specify the game's App ID")
}

func (s *DispatcherSuite) TestStartWithNonNumericArgument() {
	s.True(s.dispatcher.Handle(s.ctx, "start tf2"))
	s.Contains(s.out.String(), "Invalid App ID format")
	s.Empty(s.registry.CurrentGames())
}

func (s *DispatcherSuite) TestStartWhileDisconnected() {
	s.transport.SetConnected(false)

	s.True(s.dispatcher.Handle(s.ctx, "start 440"))
	s.Contains(s.out.String(), "No connection to Steam")
}

func (s *DispatcherSuite) TestStopCommand() {
	s.True(s.dispatcher.Handle(s.ctx, "start 440"))
	s.True(s.dispatcher.Handle(s.ctx, "stop 440"))

	s.Contains(s.out.String(), "Stopped Title 440")
	s.Empty(s.registry.CurrentGames())
}

func (s *DispatcherSuite) TestStopWhenNotRunning() {
	s.True(s.dispatcher.Handle(s.ctx, "stop 440"))
	s.Contains(s.out.String(), "Game is not running")
}

func (s *DispatcherSuite) TestStopAllCommand() {
	s.True(s.dispatcher.Handle(s.ctx, "start 440"))
	s.True(s.dispatcher.Handle(s.ctx, "stopall"))

	s.Contains(s.out.String(), "All games stopped")
	s.Empty(s.registry.CurrentGames())
}

func (s *DispatcherSuite) TestHelpCommand() {
	s.True(s.dispatcher.Handle(s.ctx, "help"))
	s.Contains(s.out.String(), "start <app_id>")
}

func (s *DispatcherSuite) TestExitCommand() {
	s.False(s.dispatcher.Handle(s.ctx, "exit"))
}

func (s *DispatcherSuite) TestUnknownCommand() {
	s.True(s.dispatcher.Handle(s.ctx, "launch 440"))
	s.Contains(s.out.String(), "Unknown command")
}

func (s *DispatcherSuite) TestBlankLine() {
	s.True(s.dispatcher.Handle(s.ctx, "   "))
	s.Empty(s.out.String())
}
