package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/dataset"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/output"
	"github.com/hupe1980/pokedash/internal/server"
	"github.com/hupe1980/pokedash/internal/watch"
)

type serveOptions struct {
	watch    bool
	showDiff bool
	debounce time.Duration
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard over HTTP",
		Long: `Serve starts an HTTP server with the interactive dashboard at / and a
JSON API under /api. Filters are passed as query parameters: type
(repeatable), country, generation, min_total and max_total.

The dataset is loaded on first use and kept in memory. POST /api/reload
re-reads it; with --watch the file is reloaded whenever it changes.`,
		Example: `  pokedash serve
  pokedash serve --listen 127.0.0.1:9000 --watch
  pokedash serve --data-file data/pokedex.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitError(runServe(cmd.Context(), cmd, opts))
		},
	}

	f := cmd.Flags()
	f.String("listen", config.DefaultListen, "HTTP listen address")
	f.BoolVar(&opts.watch, "watch", false, "reload the dataset when the file changes")
	f.BoolVar(&opts.showDiff, "show-diff", false, "print a diff of the dataset after each reload (with --watch)")
	registerDebounceFlag(cmd, &opts.debounce)

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts *serveOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := newCache(cfg)

	srv := server.New(cache,
		server.WithLogger(logger),
		server.WithFormats(output.DefaultRegistry(output.Options{NoColor: true, Interactive: true})),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Listen)
	})

	if opts.watch {
		g.Go(func() error {
			return watch.Run(gctx, watch.Options{
				File:     cfg.DataFile,
				Debounce: opts.debounce,
				ShowDiff: opts.showDiff,
				Logger:   logger,
				Out:      cmd.ErrOrStderr(),
			}, reloadFunc(cache))
		})
	} else {
		warmUp(gctx, cache, logger)
	}

	return g.Wait()
}

// warmUp loads the dataset ahead of the first request. A failure is only
// logged: the server answers 503 until the file becomes readable.
func warmUp(ctx context.Context, cache *dataset.Cache, logger *slog.Logger) {
	t, err := cache.Get(ctx)
	if err != nil {
		logger.Warn("dataset not available", slog.String("error", err.Error()))
		return
	}

	logger.Info("dataset loaded", slog.Int("rows", t.Len()))
}

// reloadFunc re-reads the dataset into cache on every watch trigger.
func reloadFunc(cache *dataset.Cache) watch.RunFunc {
	return func(ctx context.Context) (*watch.RunResult, error) {
		t, err := cache.Reload(ctx)
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{Rows: t.Len(), Summary: watch.Summary(t)}, nil
	}
}
