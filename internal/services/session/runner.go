package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
)

// CommandHandler interprets one line of operator input. It returns
// false when the session should end.
type CommandHandler func(ctx context.Context, line string) bool

// RunnerConfig holds loop timing settings
type RunnerConfig struct {
	// RefreshInterval is how often the dashboard is redrawn
	RefreshInterval time.Duration
	// PollInterval is how often the UI loop checks for shutdown
	PollInterval time.Duration
	// RenderBackoff is how long the UI loop pauses after a render failure
	RenderBackoff time.Duration
}

// DefaultRunnerConfig returns default loop timings
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		RefreshInterval: 5 * time.Second,
		PollInterval:    100 * time.Millisecond,
		RenderBackoff:   5 * time.Second,
	}
}

// Runner drives the three cooperating loops of an authenticated
// session: connection maintenance (on the calling goroutine), periodic
// dashboard refresh, and command intake. Cancelling the context — via
// the exit command, an interrupt signal, or the caller — stops all
// three.
type Runner struct {
	registry *Registry
	render   func(*Registry) error
	handle   CommandHandler
	input    io.Reader
	cfg      RunnerConfig
	logger   *slog.Logger
}

// NewRunner creates a Runner. render is called with the registry on
// every refresh tick; handle receives each operator command line.
func NewRunner(
	registry *Registry,
	render func(*Registry) error,
	handle CommandHandler,
	input io.Reader,
	cfg RunnerConfig,
	logger *slog.Logger,
) *Runner {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRunnerConfig().RefreshInterval
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultRunnerConfig().PollInterval
	}
	if cfg.RenderBackoff == 0 {
		cfg.RenderBackoff = DefaultRunnerConfig().RenderBackoff
	}
	return &Runner{
		registry: registry,
		render:   render,
		handle:   handle,
		input:    input,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run blocks until the session ends, then logs out. Returns nil on a
// clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			r.logger.Info("interrupt received")
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.uiLoop(ctx)
	}()

	// Not joined: a reader blocked on stdin cannot be interrupted, so
	// it is left to die with the process.
	go r.commandLoop(ctx, cancel)

	r.statusLoop(ctx)
	wg.Wait()

	r.registry.Logout(context.Background())
	return nil
}

// statusLoop keeps the transport's event pump alive. This is the
// liveness-critical path: MaintainConnection blocks inside the pump,
// so a stop request only takes effect between invocations (or when the
// pump itself honors cancellation).
func (r *Runner) statusLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r.registry.MaintainConnection(ctx)
	}
}

// uiLoop redraws the dashboard every RefreshInterval, polling at
// PollInterval so shutdown is observed promptly. It never exits on its
// own: render failures are logged and backed off.
func (r *Runner) uiLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	var lastRender time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if time.Since(lastRender) < r.cfg.RefreshInterval {
			continue
		}

		if err := r.renderOnce(); err != nil {
			r.logger.Error("dashboard render failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.cfg.RenderBackoff):
			}
			continue
		}
		lastRender = time.Now()
	}
}

// commandLoop reads operator input one line at a time. An exit command
// (handle returning false) or end of input cancels the session.
func (r *Runner) commandLoop(ctx context.Context, cancel context.CancelFunc) {
	scanner := bufio.NewScanner(r.input)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !r.handle(ctx, line) {
			cancel()
			return
		}
	}
	// Input closed; treat as exit
	cancel()
}

// renderOnce isolates a single dashboard render, converting panics in
// the rendering path into errors so the UI loop survives them.
func (r *Runner) renderOnce() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render panicked: %v", rec)
		}
	}()
	return r.render(r.registry)
}
