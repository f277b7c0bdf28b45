package main

import (
	"log/slog"
	"os"

	"github.com/zetpar/zetpar/internal/cli"
	"github.com/zetpar/zetpar/internal/steam"
	"github.com/zetpar/zetpar/internal/steam/loopback"
)

func main() {
	// Logs go to a file so they do not fight the console dashboard
	logger := slog.New(slog.NewJSONHandler(logWriter(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cli.Execute(newTransport)
}

// newTransport returns the Steam connection client for this build.
// The wire protocol lives in an external client library; builds select
// the adapter here. This build ships the loopback client, which
// simulates the platform in-process.
func newTransport() steam.Transport {
	return loopback.New(loopback.Config{
		GuardCode: os.Getenv("ZETPAR_GUARD_CODE"),
	})
}

func logWriter() *os.File {
	f, err := os.OpenFile("zetpar.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return os.Stderr
	}
	return f
}
