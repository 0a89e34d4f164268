package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokedash/internal/config"
)

// ---------------------------------------------------------------------------
// Setup
// ---------------------------------------------------------------------------

func TestSetupWithWriter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		log     func(*slog.Logger)
		want    []string
		notWant []string
	}{
		{
			name: "text",
			cfg:  config.Config{LogLevel: "info", LogFormat: "text"},
			log:  func(l *slog.Logger) { l.Info("dataset loaded", slog.Int("rows", 4)) },
			want: []string{"level=INFO", `msg="dataset loaded"`, "rows=4"},
		},
		{
			name: "json",
			cfg:  config.Config{LogLevel: "info", LogFormat: "json"},
			log:  func(l *slog.Logger) { l.Info("dataset loaded") },
			want: []string{`"msg":"dataset loaded"`, `"level":"INFO"`},
		},
		{
			name: "quiet keeps errors only",
			cfg:  config.Config{LogLevel: "debug", LogFormat: "text", Quiet: true},
			log: func(l *slog.Logger) {
				l.Info("hidden")
				l.Error("reload failed")
			},
			want:    []string{"reload failed"},
			notWant: []string{"hidden"},
		},
		{
			name: "debug level",
			cfg:  config.Config{LogLevel: "debug", LogFormat: "text"},
			log:  func(l *slog.Logger) { l.Debug("view built") },
			want: []string{"view built"},
		},
		{
			name:    "info hides debug",
			cfg:     config.Config{LogLevel: "info", LogFormat: "text"},
			log:     func(l *slog.Logger) { l.Debug("view built") },
			notWant: []string{"view built"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := SetupWithWriter(&tt.cfg, &buf)
			require.NotNil(t, logger)

			tt.log(logger)

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}

			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestSetup_SetsDefault(t *testing.T) {
	logger := Setup(&config.Config{LogLevel: "info", LogFormat: "text", NoColor: true})
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

func TestSetupWithWriter_PlainLevelWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer

	SetupWithWriter(&config.Config{LogLevel: "info", LogFormat: "text"}, &buf).Warn("no sprite")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.NotContains(t, buf.String(), "\x1b[")
}

// ---------------------------------------------------------------------------
// Level colors
// ---------------------------------------------------------------------------

func TestLevelColors(t *testing.T) {
	var buf bytes.Buffer

	r := lipgloss.NewRenderer(&buf)
	r.SetColorProfile(termenv.TrueColor)

	replace := levelColors(r)

	got := replace(nil, slog.Any(slog.LevelKey, slog.LevelError))
	assert.Contains(t, got.Value.String(), "\x1b[")
	assert.Contains(t, got.Value.String(), "ERROR")

	other := slog.String("path", "pokedex.csv")
	assert.Equal(t, other, replace(nil, other))

	grouped := slog.Any(slog.LevelKey, slog.LevelInfo)
	assert.Equal(t, grouped, replace([]string{"request"}, grouped))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Context
// ---------------------------------------------------------------------------

func TestContext_RoundTrip(t *testing.T) {
	logger := Discard()
	assert.Same(t, logger, FromContext(NewContext(context.Background(), logger)))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer

	ctx := NewContext(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	ctx = With(ctx, slog.String("render_id", "abc"))

	FromContext(ctx).Info("rendered")
	assert.Contains(t, buf.String(), "render_id=abc")
	assert.Contains(t, buf.String(), "msg=rendered")
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
