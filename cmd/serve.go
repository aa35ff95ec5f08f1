package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huangsam/likeplot/internal/httpapi"
	"github.com/huangsam/likeplot/internal/render"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests may take after a signal.
const shutdownTimeout = 10 * time.Second

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chart results and rendered charts over HTTP.",
	Long: `Start an HTTP API over the configured datasets.

Every request reloads its dataset, so edits to the CSV files show up
without a restart.

Routes:
  GET  /v1/healthz
  GET  /v1/boxplot | /v1/barplot | /v1/lineplot
  POST /v1/summarize            {"values": [1, 2, 3]}
  GET  /v1/charts/{kind}.svg    kind is boxplot, barplot or lineplot
  GET  /v1/charts/{kind}.png    same chart as PNG

Examples:
  likeplot serve --addr :8080`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupFor(""),
	RunE: func(_ *cobra.Command, _ []string) error {
		logger := zerolog.Ctx(rootCtx).With().Logger()
		if !cfg.Verbose {
			logger = logger.Level(zerolog.InfoLevel)
		}

		app := httpapi.NewApp(cfg, storeManager, render.NewChartSink())
		server := httpapi.NewServer(cfg.Addr, httpapi.NewRouter(app, logger))

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Msgf("API listening on %s", server.Addr())
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}
