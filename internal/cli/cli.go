package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/FACorreiaa/go-tourism-planner/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tourism-planner",
		Short: "Weather and attractions for any place",
		Long: `Tourism Planner answers "what is it like in <place>" with the current weather
and a handful of nearby attractions, over a JSON API, a web form and this CLI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd(), newQueryCmd())
	return cmd
}

// loadConfig reads .env, then config.yml or the embedded default.
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env: %v\n", err)
	}
	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("initializing config: %w", err)
	}
	return cfg, nil
}

// Execute runs the CLI until it finishes or SIGINT/SIGTERM arrives.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(ExitError)
	}
}
