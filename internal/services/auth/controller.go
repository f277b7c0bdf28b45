// Package auth drives the Steam login handshake, including the
// guard-code retry loop.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zetpar/zetpar/internal/steam"
)

// State is the controller's position in the login state machine
type State string

const (
	StateAwaitingCredentials  State = "awaiting_credentials"
	StateAwaitingSecondFactor State = "awaiting_second_factor"
	StateAuthenticated        State = "authenticated"
	StateFailed               State = "failed"
)

// LoginError is a terminal login failure carrying the transport's result code
type LoginError struct {
	Result steam.Result
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed: %s", e.Result)
}

// GuardCodePrompt blocks asking the operator for a second-factor code.
// firstAttempt is false on re-prompts after a rejected code.
type GuardCodePrompt func(firstAttempt bool) string

// Controller performs the login handshake against a transport
type Controller struct {
	transport steam.Transport
	sentryDir string
	logger    *slog.Logger

	state    State
	attempts int
}

// New creates an auth Controller. sentryDir is where per-account
// sentry files are kept; it is created on first use.
func New(transport steam.Transport, sentryDir string, logger *slog.Logger) *Controller {
	return &Controller{
		transport: transport,
		sentryDir: sentryDir,
		logger:    logger,
		state:     StateAwaitingCredentials,
	}
}

// State returns the controller's current state
func (c *Controller) State() State {
	return c.state
}

// Attempts returns how many login attempts have been made
func (c *Controller) Attempts() int {
	return c.attempts
}

// Authenticate runs the login handshake to a terminal state. An
// invalid guard code re-prompts and retries indefinitely; any other
// non-success result is terminal and returned as a LoginError.
func (c *Controller) Authenticate(ctx context.Context, username, password string, prompt GuardCodePrompt) error {
	c.setCredentialLocation(username)

	c.state = StateAwaitingSecondFactor
	guardCode := prompt(true)

	for {
		c.attempts++
		result, err := c.transport.Login(ctx, username, password, guardCode)
		if err != nil {
			c.state = StateFailed
			return fmt.Errorf("login attempt failed: %w", err)
		}

		if result == steam.ResultOK {
			c.state = StateAuthenticated
			c.logger.Info("authenticated",
				slog.String("username", c.transport.User().Name),
				slog.Int("attempts", c.attempts),
			)
			return nil
		}

		if !result.RetryableWithNewCode() {
			c.state = StateFailed
			return &LoginError{Result: result}
		}

		c.logger.Info("guard code rejected, re-prompting",
			slog.Int("attempts", c.attempts),
		)
		guardCode = prompt(false)
	}
}

// setCredentialLocation points the transport at the per-account sentry
// file before the first login attempt, so device trust carries across
// sessions.
func (c *Controller) setCredentialLocation(username string) {
	if err := os.MkdirAll(c.sentryDir, 0o700); err != nil {
		c.logger.Warn("could not create sentry directory", slog.String("error", err.Error()))
	}
	c.transport.SetCredentialLocation(filepath.Join(c.sentryDir, username+".sentry"))
}
