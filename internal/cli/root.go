package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zetpar/zetpar/internal/config"
	"github.com/zetpar/zetpar/internal/factory"
	"github.com/zetpar/zetpar/internal/steam"
)

var (
	cfg *config.Config
	app *factory.App
)

// NewRootCmd creates the root command. newTransport supplies the
// concrete Steam connection client linked into this build.
func NewRootCmd(newTransport func() steam.Transport) *cobra.Command {
	var cfgErr error
	cfg, cfgErr = config.Load()
	if cfg == nil {
		cfg = &config.Config{}
	}

	rootCmd := &cobra.Command{
		Use:   "zetpar",
		Short: "Track Steam playtime sessions from the console",
		Long: `zetpar logs in to a Steam account and reports selected titles as
being played, accruing platform-tracked playtime, with a live console
view of the session.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}

			a, err := factory.New(factory.Config{
				AppConfig: cfg,
				Transport: newTransport(),
				Logger:    slog.Default(),
			})
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory (env: ZETPAR_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Profile storage backend: file, redis (env: ZETPAR_STORAGE_TYPE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis backend (env: ZETPAR_REDIS_URL)")
	rootCmd.PersistentFlags().DurationVar(&cfg.RefreshInterval, "refresh", cfg.RefreshInterval, "Dashboard refresh interval (env: ZETPAR_REFRESH_INTERVAL)")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

// Execute runs the root command
func Execute(newTransport func() steam.Transport) {
	if err := NewRootCmd(newTransport).Execute(); err != nil {
		os.Exit(1)
	}
}
