// Package cli implements the cobra command tree for pokedash.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Exit codes.
const (
	ExitFailure         = 1
	ExitUsage           = 2
	ExitDataUnavailable = 3
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitError attaches the exit code matching the domain error kind of err.
func exitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	switch {
	case errors.Is(err, pokedex.ErrInvalidArgument):
		return &ExitError{Code: ExitUsage, Err: err}
	case errors.Is(err, pokedex.ErrDataUnavailable):
		return &ExitError{Code: ExitDataUnavailable, Err: err}
	default:
		return &ExitError{Code: ExitFailure, Err: err}
	}
}

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return ExitFailure
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "pokedash",
		Short: "Explore a creature-stats dataset as a dashboard",
		Long: `pokedash loads an enriched Pokédex CSV and presents it as a dashboard:
metric cards for the strongest creatures, bar and scatter charts of their
stats, group averages by country and type, and a sprite gallery.

The dashboard can be rendered once to HTML, JSON, YAML or the terminal,
served over HTTP with interactive filters, or re-rendered whenever the
dataset changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("dataFile", cfg.DataFile),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .pokedash.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("data-file", config.DefaultDataFile, "creature CSV to load")
	pf.String("sprite-base-url", config.DefaultSpriteBaseURL, "base URL for creature sprites")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newVersionCommand(),
		newRenderCommand(),
		newServeCommand(),
		newInspectCommand(),
		newWatchCommand(),
		newCompletionCommand(),
	)

	return cmd
}
