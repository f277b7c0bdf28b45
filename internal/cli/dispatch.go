package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zetpar/zetpar/internal/model"
	"github.com/zetpar/zetpar/internal/services/session"
	"github.com/zetpar/zetpar/internal/ui"
)

// Dispatcher interprets operator commands against the registry and
// reports outcomes through the console.
type Dispatcher struct {
	registry *session.Registry
	console  *ui.Console
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(registry *session.Registry, console *ui.Console) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		console:  console,
	}
}

// Handle runs one command line. It returns false when the operator
// asked to exit; any other input, valid or not, keeps the session
// running.
func (d *Dispatcher) Handle(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "help":
		d.console.Help()
	case "exit":
		return false
	case "stopall":
		d.registry.StopAllGames(ctx)
		d.console.Success("All games stopped")
	case "start":
		appID, ok := d.parseAppID(fields)
		if !ok {
			return true
		}
		name, err := d.registry.StartGame(ctx, appID)
		if err != nil {
			d.console.Error(startError(err))
			return true
		}
		d.console.Success(fmt.Sprintf("Started %s", name))
	case "stop":
		appID, ok := d.parseAppID(fields)
		if !ok {
			return true
		}
		name, err := d.registry.StopGame(ctx, appID)
		if err != nil {
			d.console.Error(stopError(err))
			return true
		}
		d.console.Success(fmt.Sprintf("Stopped %s", name))
	default:
		d.console.Error("Unknown command. Type 'help' for the command list")
	}
	return true
}

func (d *Dispatcher) parseAppID(fields []string) (model.AppID, bool) {
	if len(fields) < 2 {
		d.console.Error("Specify the game's App ID")
		return 0, false
	}
	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil || id == 0 {
		d.console.Error("Invalid App ID format. Use digits only.")
		return 0, false
	}
	return model.AppID(id), true
}

func startError(err error) string {
	if errors.Is(err, model.ErrNotConnected) {
		return "No connection to Steam"
	}
	return fmt.Sprintf("Could not start game: %v", err)
}

func stopError(err error) string {
	if errors.Is(err, model.ErrGameNotRunning) {
		return "Game is not running"
	}
	return fmt.Sprintf("Could not stop game: %v", err)
}
