package cli

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/pokedash/internal/aggregate"
	"github.com/hupe1980/pokedash/internal/audit"
	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

type inspectOptions struct {
	by     []string
	format string
	audit  bool
	failOn string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the dataset without rendering",
		Long: `Inspect loads the dataset and prints an overview: the row count, the
observed Total range, and the number of creatures and their mean Total
per generation, type and country.

Use it to check a data file before rendering, or to discover the values
accepted by the filter flags. With --audit the rows are also checked for
data-quality problems; the command fails when a finding reaches the
--fail-on severity.`,
		Example: `  pokedash inspect
  pokedash inspect --by country --format json
  pokedash inspect --audit --fail-on medium`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exitError(runInspect(cmd.Context(), cmd, opts))
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.by, "by", []string{"generation", "type", "country"}, "group breakdowns to show: generation, type, country")
	f.StringVar(&opts.format, "format", "table", "output format: table, json, yaml")
	f.BoolVar(&opts.audit, "audit", false, "run data-quality checks")
	f.StringVar(&opts.failOn, "fail-on", "high", "with --audit, fail on findings at or above this severity: high, medium, low, info")

	_ = cmd.RegisterFlagCompletionFunc("by", fixedValues("generation", "type", "country"))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedValues("table", "json", "yaml"))
	_ = cmd.RegisterFlagCompletionFunc("fail-on", fixedValues("high", "medium", "low", "info"))

	return cmd
}

// inspectResult is the structured output of the inspect command.
type inspectResult struct {
	DataFile string        `json:"dataFile"`
	Rows     int           `json:"rows"`
	Total    filter.Range  `json:"total"`
	Groups   []groupSet    `json:"groups,omitempty"`
	Audit    *audit.Result `json:"audit,omitempty"`
}

type groupSet struct {
	Dimension string      `json:"dimension"`
	Missing   int         `json:"missing,omitempty"`
	Values    []groupInfo `json:"values"`
}

type groupInfo struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	MeanTotal float64 `json:"meanTotal"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts *inspectOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	dims := make([]pokedex.Dimension, 0, len(opts.by))

	for _, name := range opts.by {
		d, err := pokedex.ParseDimension(name)
		if err != nil {
			return err
		}

		dims = append(dims, d)
	}

	failOn, err := audit.ParseSeverity(opts.failOn)
	if err != nil {
		return err
	}

	logger.Info("loading dataset", slog.String("path", cfg.DataFile))

	full, err := newCache(cfg).Get(ctx)
	if err != nil {
		return err
	}

	result := buildInspectResult(cfg.DataFile, full, dims)

	if opts.audit {
		result.Audit = audit.New(audit.DefaultChecks()...).Run(ctx, full)
	}

	w := cmd.OutOrStdout()

	switch opts.format {
	case "json":
		err = renderJSON(w, result)
	case "yaml":
		err = renderYAML(w, result)
	case "table":
		err = renderTable(w, result)
	default:
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("unknown format %q: expected table, json, yaml", opts.format)}
	}

	if err != nil {
		return err
	}

	if result.Audit != nil && !result.Audit.Passed(failOn) {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("audit failed: findings at or above %s severity", failOn)}
	}

	return nil
}

func buildInspectResult(path string, full *pokedex.Table, dims []pokedex.Dimension) inspectResult {
	result := inspectResult{DataFile: path, Rows: full.Len()}

	if lo, hi, err := aggregate.Bounds(full, pokedex.Total); err == nil {
		result.Total = filter.Range{Lo: lo, Hi: hi}
	}

	for _, d := range dims {
		counts := aggregate.Count(full, d)
		means := aggregate.GroupMean(full, d, pokedex.Total)

		set := groupSet{Dimension: d.String(), Missing: full.Len()}

		for name, n := range counts {
			set.Values = append(set.Values, groupInfo{Name: name, Count: n, MeanTotal: means[name][pokedex.Total]})
			set.Missing -= n
		}

		sortGroups(d, set.Values)
		result.Groups = append(result.Groups, set)
	}

	return result
}

// sortGroups orders generations chronologically and every other dimension
// by count descending, then name.
func sortGroups(d pokedex.Dimension, groups []groupInfo) {
	if d == pokedex.GenerationDimension {
		slices.SortFunc(groups, func(a, b groupInfo) int {
			return cmp.Or(
				cmp.Compare(pokedex.GenerationOrder(a.Name), pokedex.GenerationOrder(b.Name)),
				cmp.Compare(a.Name, b.Name),
			)
		})

		return
	}

	slices.SortFunc(groups, func(a, b groupInfo) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Name, b.Name))
	})
}

func renderJSON(w io.Writer, result inspectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

func renderYAML(w io.Writer, result inspectResult) error {
	data, err := sigsyaml.Marshal(result)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func renderTable(w io.Writer, result inspectResult) error {
	_, _ = fmt.Fprintf(w, "Dataset: %s\n", result.DataFile)
	_, _ = fmt.Fprintf(w, "Rows: %d\n", result.Rows)

	if result.Rows > 0 {
		_, _ = fmt.Fprintf(w, "Total: %d..%d\n", result.Total.Lo, result.Total.Hi)
	}

	for _, set := range result.Groups {
		printGroupSet(w, set)
	}

	if result.Audit == nil {
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n--- Audit ---\n")

	return audit.WriteTable(w, result.Audit)
}

func printGroupSet(w io.Writer, set groupSet) {
	_, _ = fmt.Fprintf(w, "\n--- %s (%d) ---\n", set.Dimension, len(set.Values))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VALUE\tCOUNT\tMEAN TOTAL")

	for _, g := range set.Values {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%.1f\n", g.Name, g.Count, g.MeanTotal)
	}

	if set.Missing > 0 {
		_, _ = fmt.Fprintf(tw, "(none)\t%d\t\n", set.Missing)
	}

	_ = tw.Flush()
}
