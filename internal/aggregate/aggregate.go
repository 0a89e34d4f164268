// Package aggregate computes summary statistics over a [pokedex.Table]:
// the extremum row of a stat, per-group means, top-N selection and the
// observed range of a stat. Every function is pure and leaves its input
// untouched.
package aggregate

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Extremum returns the row with the largest value of stat. Ties go to the
// first row in table order.
func Extremum(t *pokedex.Table, stat pokedex.Stat) (pokedex.Row, error) {
	if t.Len() == 0 {
		return pokedex.Row{}, fmt.Errorf("extremum of %s: %w", stat, pokedex.ErrEmptyTable)
	}

	best := t.Row(0)

	for i := 1; i < t.Len(); i++ {
		if r := t.Row(i); stat.Value(r) > stat.Value(best) {
			best = r
		}
	}

	return best, nil
}

// TopN returns the n rows with the largest stat values in descending order.
// Ties keep table order. n larger than the table returns every row.
func TopN(t *pokedex.Table, n int, stat pokedex.Stat) (*pokedex.Table, error) {
	if n < 0 {
		return nil, fmt.Errorf("top %d by %s: n must not be negative: %w", n, stat, pokedex.ErrInvalidArgument)
	}

	rows := t.Rows()
	slices.SortStableFunc(rows, func(a, b pokedex.Row) int {
		return cmp.Compare(stat.Value(b), stat.Value(a))
	})

	if n < len(rows) {
		rows = rows[:n]
	}

	return pokedex.NewTable(rows), nil
}

// Bounds returns the smallest and largest value of stat.
func Bounds(t *pokedex.Table, stat pokedex.Stat) (lo, hi int, err error) {
	if t.Len() == 0 {
		return 0, 0, fmt.Errorf("bounds of %s: %w", stat, pokedex.ErrEmptyTable)
	}

	lo, hi = stat.Value(t.Row(0)), stat.Value(t.Row(0))

	for i := 1; i < t.Len(); i++ {
		v := stat.Value(t.Row(i))
		lo = min(lo, v)
		hi = max(hi, v)
	}

	return lo, hi, nil
}
