package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	appLogger "github.com/FACorreiaa/go-tourism-planner/app/logger"
	"github.com/FACorreiaa/go-tourism-planner/internal/planner"
	"github.com/FACorreiaa/go-tourism-planner/internal/render"
	"github.com/FACorreiaa/go-tourism-planner/internal/types"
	"github.com/spf13/cobra"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ErrQueryFailed is returned when the backend could not answer the query. The
// message has already been printed.
var ErrQueryFailed = errors.New("query failed")

func newQueryCmd() *cobra.Command {
	var (
		apiBase string
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "query <place...>",
		Short: "Ask the API about a place and print the result",
		Example: `  tourism-planner query Paris
  tourism-planner query "I am going to Bangalore" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat := OutputFormat(strings.ToLower(format))
			if outputFormat != FormatText && outputFormat != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-base") {
				cfg.Planner.APIBaseURL = apiBase
			}

			logger := slog.New(slog.DiscardHandler)
			if verbose {
				logger = appLogger.New(cfg.Mode, cmd.ErrOrStderr())
			}

			client := planner.NewClient(cfg.Planner.APIBaseURL, &http.Client{Timeout: cfg.Planner.RequestTimeout})
			controller := planner.NewController(client, logger)

			place := strings.Join(args, " ")
			if err := controller.Submit(cmd.Context(), place); err != nil {
				if errors.Is(err, planner.ErrEmptyPlace) {
					return errors.New(planner.MsgEmptyPlace)
				}
				return err
			}

			state := controller.State()
			if state.Error != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), state.Error)
				return ErrQueryFailed
			}

			view := render.NewRenderer(cfg.Planner.SearchURL).Render(state.Result)
			return writeResult(cmd.OutOrStdout(), state.Result, view, outputFormat)
		},
	}

	cmd.Flags().StringVar(&apiBase, "api-base", "", "API origin (overrides planner.apiBaseURL)")
	cmd.Flags().StringVar(&format, "format", string(FormatText), "Output format: text or json")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log requests to stderr")
	return cmd
}

func writeResult(w io.Writer, result *types.QueryResult, view render.View, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatText:
		return render.Text(w, view)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
