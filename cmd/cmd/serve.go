package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escmon/internal/logger"
	"escmon/internal/monitor"
	"escmon/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server with the daily scheduler",
	Long: `Serves the score and metrics endpoints and the cron trigger, and runs
the assessment on the configured schedule. Shuts down cleanly on SIGINT and
SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		m, err := monitor.FromConfig(cfg)
		if err != nil {
			return err
		}

		srv := server.New(m.Reports(), m.Run, cfg.Server)

		done := make(chan os.Signal, 1)
		signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case sig := <-done:
			l := logger.With("server")
			l.Info().Str("signal", sig.String()).Msg("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
