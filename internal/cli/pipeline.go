package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/dataset"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/output"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

// defaultFormat is used when neither --format nor the --output extension
// names one.
const defaultFormat = "text"

// newCache returns a dataset cache reading the configured data file.
func newCache(cfg *config.Config) *dataset.Cache {
	return dataset.NewCache(dataset.FileLoader(cfg.DataFile, dataset.WithSpriteBaseURL(cfg.SpriteBaseURL)))
}

// renderOptions are the flags of a one-shot or repeated render.
type renderOptions struct {
	filterOptions

	format string
	output string
}

// resolveFormat picks the output format: the --format flag wins, then the
// extension of --output, then text.
func (o *renderOptions) resolveFormat(reg *output.Registry) (output.Format, error) {
	if o.format != "" {
		return reg.Format(o.format)
	}

	return reg.ForPath(o.output, defaultFormat)
}

// pipelineResult holds the outcome of one render pass.
type pipelineResult struct {
	View   *dashboard.View
	Format output.Format
	Data   []byte
}

// runPipeline filters full, builds the view and encodes it.
func runPipeline(ctx context.Context, cmd *cobra.Command, full *pokedex.Table, opts *renderOptions) (*pipelineResult, error) {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	reg := output.DefaultRegistry(output.Options{NoColor: cfg.NoColor || opts.output != ""})

	f, err := opts.resolveFormat(reg)
	if err != nil {
		return nil, err
	}

	c, err := opts.criteria(cmd, full)
	if err != nil {
		return nil, err
	}

	v, err := dashboard.Build(full, c)
	if err != nil {
		return nil, err
	}

	logger.Debug("dashboard built",
		slog.Int("rows", v.Size),
		slog.Int("count", v.Count),
		slog.Any("filters", v.Active),
	)

	var buf bytes.Buffer
	if err := f.Encode(&buf, v); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", f.Name, err)
	}

	return &pipelineResult{View: v, Format: f, Data: buf.Bytes()}, nil
}

// writeResult writes data to the --output file, or to the command's
// stdout when none is set.
func writeResult(ctx context.Context, cmd *cobra.Command, path string, data []byte) error {
	return output.Destination(path, cmd.OutOrStdout(), output.WithLogger(logging.FromContext(ctx))).Write(data)
}
