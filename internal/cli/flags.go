package cli

import (
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/aggregate"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

// filterOptions holds the dashboard filter flags shared by render and watch.
type filterOptions struct {
	types      []string
	country    string
	generation string
	minTotal   int
	maxTotal   int
}

// registerFilterFlags adds the dashboard filter flags to a cobra command.
func registerFilterFlags(cmd *cobra.Command, opts *filterOptions) {
	f := cmd.Flags()
	f.StringArrayVar(&opts.types, "type", nil, "keep creatures of this exact type (repeatable)")
	f.StringVar(&opts.country, "country", filter.All, "keep creatures from this country")
	f.StringVar(&opts.generation, "generation", filter.All, "keep creatures of this generation (I, II, ...)")
	f.IntVar(&opts.minTotal, "min-total", 0, "minimum Total (default: lowest in the data)")
	f.IntVar(&opts.maxTotal, "max-total", 0, "maximum Total (default: highest in the data)")

	registerFilterCompletions(cmd)
}

// registerOutputFlags adds --format and --output to a cobra command.
func registerOutputFlags(cmd *cobra.Command, format, output *string) {
	f := cmd.Flags()
	f.StringVar(format, "format", "", "output format: html, json, yaml, markdown, text (default: from --output extension, else text)")
	f.StringVarP(output, "output", "o", "", "output file path (default: stdout)")

	registerFormatCompletion(cmd)
}

// registerDebounceFlag adds --debounce to a cobra command.
func registerDebounceFlag(cmd *cobra.Command, d *time.Duration) {
	cmd.Flags().DurationVar(d, "debounce", 500*time.Millisecond, "debounce interval for file changes")
}

// criteria turns the flags into filter criteria. The flags go through the
// same query parsing as the HTTP server, so a one-sided Total bound is
// completed from the data of full.
func (o *filterOptions) criteria(cmd *cobra.Command, full *pokedex.Table) (filter.Criteria, error) {
	q := url.Values{}

	for _, t := range o.types {
		q.Add("type", t)
	}

	q.Set("country", o.country)
	q.Set("generation", o.generation)

	if cmd.Flags().Changed("min-total") {
		q.Set("min_total", strconv.Itoa(o.minTotal))
	}

	if cmd.Flags().Changed("max-total") {
		q.Set("max_total", strconv.Itoa(o.maxTotal))
	}

	var bounds filter.Range
	if lo, hi, err := aggregate.Bounds(full, pokedex.Total); err == nil {
		bounds = filter.Range{Lo: lo, Hi: hi}
	}

	return filter.FromQuery(q, bounds)
}
