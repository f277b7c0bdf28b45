package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zetpar/zetpar/internal/services/session"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Log in and start an interactive playtime session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context())
		},
	}
}

func runSession(ctx context.Context) error {
	console := app.Console
	in := bufio.NewReader(os.Stdin)
	prompter := NewPrompter(console, in)

	console.ClearScreen()
	console.Banner()

	username, password := selectProfile(ctx, prompter)
	if username == "" {
		username = prompter.Line("Steam login")
		password = prompter.Password("Steam password")
		if strings.EqualFold(prompter.Line("Save profile? (y/n)"), "y") {
			if app.Profiles.Save(ctx, username, password) {
				console.Success("Profile saved")
			} else {
				console.Error("Could not save profile")
			}
		}
	}

	err := app.Auth.Authenticate(ctx, username, password, func(firstAttempt bool) string {
		if firstAttempt {
			return prompter.Line("Enter the Steam Guard code from the mobile app (leave empty if not required)")
		}
		return prompter.Line("Invalid code. Enter the Steam Guard code again")
	})
	password = "" // not needed past the handshake
	if err != nil {
		console.Error(fmt.Sprintf("Authentication failed: %v", err))
		return nil
	}

	console.Success(fmt.Sprintf("Logged in to Steam as %s", app.Transport.User().Name))
	console.Help()

	dispatcher := NewDispatcher(app.Registry, console)
	runner := session.NewRunner(
		app.Registry,
		func(r *session.Registry) error {
			return console.RenderDashboard(r.SessionInfo(), r.CurrentGames())
		},
		dispatcher.Handle,
		in,
		session.RunnerConfig{RefreshInterval: cfg.RefreshInterval},
		slog.Default(),
	)
	return runner.Run(ctx)
}

// selectProfile offers the saved profiles for login. It returns empty
// strings when there are none or the operator wants a fresh login.
func selectProfile(ctx context.Context, prompter *Prompter) (string, string) {
	console := app.Console

	profiles := app.Profiles.List(ctx)
	if len(profiles) == 0 {
		return "", ""
	}
	sort.Strings(profiles)

	console.PromptPanel("Select a profile or type 'new' to create one:")
	for i, name := range profiles {
		console.Plain(fmt.Sprintf("%d. %s", i+1, name))
	}

	for {
		choice := strings.ToLower(prompter.Line("Profile choice"))
		if choice == "new" {
			return "", ""
		}

		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(profiles) {
			username := profiles[idx-1]
			if password, ok := app.Profiles.Load(ctx, username); ok {
				return username, password
			}
		}

		console.Error("Invalid choice. Try again.")
	}
}
