package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a reload.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single reload so the watcher can track
// dataset changes.
type RunResult struct {
	// Rows is the number of rows loaded.
	Rows int
	// Summary is the Summary of the loaded table.
	Summary string
	// OutputPath is set when the reload also wrote a rendered file.
	OutputPath string
}

// Options configures the watch behaviour.
type Options struct {
	// File is the dataset file to watch.
	File string

	// Debounce is the quiet period before triggering a reload.
	Debounce time.Duration

	// ShowDiff prints the unified diff of the dataset summary after each
	// reload that changed it.
	ShowDiff bool

	// SkipInitial suppresses the reload on start, for callers that
	// already hold a fresh table.
	SkipInitial bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
//
// The parent directory is watched rather than the file itself so that
// editors and tools replacing the file atomically are still noticed.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	target, err := filepath.Abs(opts.File)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", opts.File, err)
	}

	info, err := os.Stat(filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("watching dataset directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("watching dataset directory: %s is not a directory", filepath.Dir(target))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching dataset directory: %w", err)
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.File, opts.Debounce)

	r := &runner{opts: opts, run: runFn}

	if !opts.SkipInitial {
		r.do(sigCtx, "(initial)")
	}

	debouncer := NewDebouncer(opts.Debounce, func(b Burst) {
		r.do(sigCtx, b.String())
	}, opts.Logger)
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "shutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, target) {
				continue
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// runner serializes reloads and remembers the previous summary.
type runner struct {
	opts Options
	run  RunFunc

	mu   sync.Mutex
	prev string
	seen bool
}

// do executes a single reload and prints the status line.
func (r *runner) do(ctx context.Context, trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	out := r.opts.Out
	now := time.Now().Format("15:04:05")

	result, err := r.run(ctx)
	if err != nil {
		fmt.Fprintf(out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(out, "[%s] %s → OK (%d rows)\n", now, trigger, result.Rows)

	if result.OutputPath != "" {
		fmt.Fprintf(out, "  wrote %s\n", result.OutputPath)
	}

	if r.seen {
		diff, diffErr := Diff(r.prev, result.Summary, DefaultDiffOptions())
		if diffErr != nil {
			r.opts.Logger.Warn("diffing dataset", slog.String("error", diffErr.Error()))
		} else {
			fmt.Fprintf(out, "  data: %s\n", DiffSummary(diff))

			if r.opts.ShowDiff {
				WriteDiff(out, diff)
			}
		}
	}

	r.prev = result.Summary
	r.seen = true
}

// isRelevant keeps content-changing events on the watched file and drops
// editor temporaries.
func isRelevant(event fsnotify.Event, target string) bool {
	if event.Op == 0 {
		return false
	}

	// Only care about write, create, remove, rename.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	// Ignore editor temporary files and hidden files.
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return abs == target
}
