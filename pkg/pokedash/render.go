// Package pokedash provides a public Go API for rendering the creature
// stats dashboard.
//
// This package exposes the pokedash render pipeline as a library,
// allowing programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := pokedash.Render(ctx, "pokedex.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Data))
//
// With options:
//
//	result, err := pokedash.Render(ctx, "pokedex.csv",
//	    pokedash.WithTypes("fire", "water"),
//	    pokedash.WithTotalRange(300, 500),
//	    pokedash.WithFormat("html"),
//	)
package pokedash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/dataset"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/output"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Error kinds reported by Render. Use errors.Is to test for them.
var (
	ErrInvalidArgument = pokedex.ErrInvalidArgument
	ErrDataUnavailable = pokedex.ErrDataUnavailable
)

// Option configures the render pipeline.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	// Filtering.
	types      []string
	country    string
	generation string
	total      *filter.Range

	// Output.
	format      string
	interactive bool

	spriteBaseURL string
	logger        *slog.Logger
}

// --- Filtering ---

// WithTypes keeps creatures whose type descriptor equals one of types.
func WithTypes(types ...string) Option { return func(o *options) { o.types = types } }

// WithCountry keeps creatures from country.
func WithCountry(country string) Option { return func(o *options) { o.country = country } }

// WithGeneration keeps creatures of the generation label (I, II, ...).
func WithGeneration(gen string) Option { return func(o *options) { o.generation = gen } }

// WithTotalRange keeps creatures whose Total lies in [lo, hi].
func WithTotalRange(lo, hi int) Option {
	return func(o *options) { o.total = &filter.Range{Lo: lo, Hi: hi} }
}

// --- Output ---

// WithFormat selects the output format: html, json, yaml, markdown or
// text (default: json).
func WithFormat(format string) Option { return func(o *options) { o.format = format } }

// WithInteractive includes the filter form in HTML output.
func WithInteractive() Option { return func(o *options) { o.interactive = true } }

// --- Loading ---

// WithSpriteBaseURL overrides the sprite host prefix.
func WithSpriteBaseURL(url string) Option { return func(o *options) { o.spriteBaseURL = url } }

// WithLogger sets the logger used while loading (default: discard).
func WithLogger(logger *slog.Logger) Option { return func(o *options) { o.logger = logger } }

// Result holds the output of a successful render.
type Result struct {
	// Data is the encoded dashboard.
	Data []byte

	// Format is the name of the format Data is encoded in.
	Format string

	// MediaType is the MIME type of Data.
	MediaType string

	// Count is the number of creatures left after filtering.
	Count int

	// Size is the number of creatures in the dataset.
	Size int

	// Filters describes the active filters, empty when none are set.
	Filters []string
}

// Render loads the dataset at path, applies the filters and encodes the
// dashboard.
//
// Pass no options to render every creature as JSON:
//
//	result, err := pokedash.Render(ctx, "pokedex.csv")
func Render(ctx context.Context, path string, opts ...Option) (*Result, error) {
	if path == "" {
		return nil, fmt.Errorf("data file must not be empty: %w", ErrInvalidArgument)
	}

	o := &options{
		format:        "json",
		spriteBaseURL: dataset.DefaultSpriteBaseURL,
		logger:        logging.Discard(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx = logging.NewContext(ctx, o.logger)

	reg := output.DefaultRegistry(output.Options{NoColor: true, Interactive: o.interactive})

	f, err := reg.Format(o.format)
	if err != nil {
		return nil, err
	}

	full, err := dataset.NewCache(dataset.FileLoader(path, dataset.WithSpriteBaseURL(o.spriteBaseURL))).Get(ctx)
	if err != nil {
		return nil, err
	}

	c := filter.Criteria{
		Types:      o.types,
		Country:    o.country,
		Generation: o.generation,
		Total:      o.total,
	}

	v, err := dashboard.Build(full, c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Encode(&buf, v); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", f.Name, err)
	}

	return &Result{
		Data:      buf.Bytes(),
		Format:    f.Name,
		MediaType: f.MediaType,
		Count:     v.Count,
		Size:      v.Size,
		Filters:   v.Active,
	}, nil
}

// IsInvalidArgument reports whether err was caused by bad caller input.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsDataUnavailable reports whether err was caused by a missing or
// malformed data file.
func IsDataUnavailable(err error) bool { return errors.Is(err, ErrDataUnavailable) }
