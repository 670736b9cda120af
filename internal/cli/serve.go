package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	appLogger "github.com/FACorreiaa/go-tourism-planner/app/logger"
	"github.com/FACorreiaa/go-tourism-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-planner/app/tracer"
	"github.com/FACorreiaa/go-tourism-planner/internal/container"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (API and planner page)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.HTTPPort = port
			}

			logger := appLogger.New(cfg.Mode, os.Stderr)
			slog.SetDefault(logger)
			ctx := cmd.Context()

			if cfg.Handlers.Prometheus.Enabled {
				shutdown, err := tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port, logger)
				if err != nil {
					return fmt.Errorf("initializing telemetry: %w", err)
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						logger.Error("Telemetry shutdown failed", slog.Any("error", err))
					}
				}()
			}
			metrics.InitAppMetrics()

			c, err := container.NewContainer(ctx, &cfg, logger)
			if err != nil {
				return fmt.Errorf("initializing container: %w", err)
			}
			defer c.Close()

			if !c.WaitForDB(ctx) {
				return errors.New("database not ready after waiting")
			}

			return serve(ctx, cfg.Server.HTTPPort, c.Router(), logger)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides server.HTTPPort)")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, port string, handler http.Handler, logger *slog.Logger) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	serverAddress := fmt.Sprintf(":%s", port)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		return err
	}
	logger.Info("HTTP server gracefully stopped")

	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
