package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/watch"
)

type watchOptions struct {
	renderOptions

	// Watch-specific options.
	debounce time.Duration
	showDiff bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the dashboard whenever the dataset changes",
		Long: `Watch monitors the data file and re-renders the dashboard to --output
each time it is modified.

File changes are debounced to avoid rapid re-runs. Each render reports
the row count; --show-diff also prints which creatures were added,
removed or changed since the previous render.`,
		Example: `  pokedash watch -o dashboard.html
  pokedash watch -o fire.json --type fire --show-diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitError(runWatch(cmd.Context(), cmd, opts))
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerOutputFlags(cmd, &opts.format, &opts.output)
	registerDebounceFlag(cmd, &opts.debounce)
	cmd.Flags().BoolVar(&opts.showDiff, "show-diff", false, "print a diff of the dataset after each render")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	if opts.output == "" || opts.output == "-" {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("--output (-o) is required for watch mode")}
	}

	cfg := config.FromContext(ctx)
	cache := newCache(cfg)

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		full, err := cache.Reload(fnCtx)
		if err != nil {
			return nil, err
		}

		res, err := runPipeline(fnCtx, cmd, full, &opts.renderOptions)
		if err != nil {
			return nil, err
		}

		if err := writeResult(fnCtx, cmd, opts.output, res.Data); err != nil {
			return nil, err
		}

		return &watch.RunResult{
			Rows:       full.Len(),
			Summary:    watch.Summary(full),
			OutputPath: opts.output,
		}, nil
	}

	watchOpts := watch.Options{
		File:     cfg.DataFile,
		Debounce: opts.debounce,
		ShowDiff: opts.showDiff,
		Logger:   logging.FromContext(ctx),
		Out:      cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}
