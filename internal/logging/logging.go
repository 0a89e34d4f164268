// Package logging builds the [log/slog] logger used by every command and
// carries it through request and command contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/pokedash/internal/config"
)

type ctxKey struct{}

// Setup builds the logger described by cfg, writing to stderr, and installs
// it as the slog default.
func Setup(cfg *config.Config) *slog.Logger {
	return SetupWithWriter(cfg, os.Stderr)
}

// SetupWithWriter is Setup writing to w.
//
// Text output colors the level when w is a terminal and cfg.NoColor is
// unset; JSON output is never styled.
func SetupWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.EffectiveLogLevel())}

	var handler slog.Handler

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		if !cfg.NoColor {
			opts.ReplaceAttr = levelColors(lipgloss.NewRenderer(w))
		}

		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// levelColors styles the level attribute. The renderer drops the styling
// when its writer has no color support.
func levelColors(r *lipgloss.Renderer) func([]string, slog.Attr) slog.Attr {
	styles := map[slog.Level]lipgloss.Style{
		slog.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		slog.LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("#6890F0")),
		slog.LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("#F8D030")),
		slog.LevelError: r.NewStyle().Foreground(lipgloss.Color("#C03028")).Bold(true),
	}

	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 || a.Key != slog.LevelKey {
			return a
		}

		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}

		if st, ok := styles[level]; ok {
			return slog.String(a.Key, st.Render(level.String()))
		}

		return a
	}
}

// ParseLevel converts a configured level name to a slog.Level. Unknown
// names map to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}

// With returns a child context whose logger carries args on every record,
// e.g. the render ID of an HTTP request.
func With(ctx context.Context, args ...any) context.Context {
	return NewContext(ctx, FromContext(ctx).With(args...))
}
