package watch

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Summary renders a deterministic one-line-per-creature digest of t, sorted
// by ID, suitable for diffing consecutive loads.
func Summary(t *pokedex.Table) string {
	rows := t.Rows()
	slices.SortFunc(rows, func(a, b pokedex.Row) int { return a.ID - b.ID })

	var sb strings.Builder

	for _, r := range rows {
		fmt.Fprintf(&sb, "#%d %s [%s] atk=%d def=%d spd=%d total=%d country=%s gen=%s\n",
			r.ID, r.Name, r.Type, r.Attack, r.Defense, r.Speed, r.Total, r.Country, r.Generation)
	}

	return sb.String()
}

// DiffResult holds the result of a unified diff between two summaries.
type DiffResult struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	Added          int
	Removed        int
}

// DiffOptions configures diff computation.
type DiffOptions struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultDiffOptions returns sensible default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		OldLabel: "previous",
		NewLabel: "current",
		Context:  1,
	}
}

// Diff computes a unified diff between two summaries.
func Diff(oldDoc, newDoc string, opts DiffOptions) (*DiffResult, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldDoc),
		B:        difflib.SplitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	res := &DiffResult{
		Unified:        unified,
		HasDifferences: unified != "",
	}

	if !res.HasDifferences {
		return res, nil
	}

	var current strings.Builder

	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			if current.Len() > 0 {
				res.Hunks = append(res.Hunks, current.String())
				current.Reset()
			}
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			res.Added++
		case strings.HasPrefix(line, "-"):
			res.Removed++
		}

		if current.Len() > 0 || strings.HasPrefix(line, "@@") {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	if current.Len() > 0 {
		res.Hunks = append(res.Hunks, current.String())
	}

	return res, nil
}

// DiffSummary returns a human-readable one-line summary.
func DiffSummary(res *DiffResult) string {
	if res == nil || !res.HasDifferences {
		return "no data changes"
	}

	return fmt.Sprintf("%d row(s) added, %d row(s) removed", res.Added, res.Removed)
}

// WriteDiff writes the unified diff to w.
func WriteDiff(w io.Writer, res *DiffResult) {
	if res == nil || !res.HasDifferences {
		return
	}

	for _, line := range strings.Split(strings.TrimRight(res.Unified, "\n"), "\n") {
		_, _ = fmt.Fprintln(w, "  "+line)
	}
}
