package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/logging"
)

func newRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard once",
		Long: `Render loads the dataset, applies the filter flags and writes the
dashboard in the chosen format.

The format defaults to the extension of --output (.html, .json, .yaml,
.md, .txt) and falls back to a terminal rendering on stdout.`,
		Example: `  pokedash render --type fire --generation I
  pokedash render --country Japan --min-total 500 -o dashboard.html
  pokedash render --format json | jq '.metrics'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitError(runRender(cmd.Context(), cmd, opts))
		},
	}

	registerFilterFlags(cmd, &opts.filterOptions)
	registerOutputFlags(cmd, &opts.format, &opts.output)

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, opts *renderOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	full, err := newCache(cfg).Get(ctx)
	if err != nil {
		return err
	}

	res, err := runPipeline(ctx, cmd, full, opts)
	if err != nil {
		return err
	}

	if err := writeResult(ctx, cmd, opts.output, res.Data); err != nil {
		return err
	}

	if opts.output != "" && opts.output != "-" {
		logger.Info("dashboard written",
			slog.String("path", opts.output),
			slog.String("format", res.Format.Name),
			slog.String("showing", fmt.Sprintf("%d of %d", res.View.Count, res.View.Size)),
		)
	}

	return nil
}
