package aggregate

import (
	"cmp"
	"slices"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Means maps a group value to the mean of each requested stat.
type Means map[string]map[pokedex.Stat]float64

// GroupStats is one group of a ranked GroupMean result.
type GroupStats struct {
	Key   string                   `json:"key"`
	Means map[pokedex.Stat]float64 `json:"means"`
}

// GroupMean computes the arithmetic mean of each stat within each distinct
// value of dim. Only groups with at least one row appear. Rows whose group
// value is null (empty) are skipped.
func GroupMean(t *pokedex.Table, dim pokedex.Dimension, stats ...pokedex.Stat) Means {
	sums := make(map[string][]int)
	counts := make(map[string]int)

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)

		key := dim.Value(r)
		if key == "" {
			continue
		}

		if _, ok := sums[key]; !ok {
			sums[key] = make([]int, len(stats))
		}

		for j, s := range stats {
			sums[key][j] += s.Value(r)
		}

		counts[key]++
	}

	out := make(Means, len(sums))

	for key, total := range sums {
		m := make(map[pokedex.Stat]float64, len(stats))
		for j, s := range stats {
			m[s] = float64(total[j]) / float64(counts[key])
		}

		out[key] = m
	}

	return out
}

// Ranked orders the groups of means by the mean of stat, descending when
// desc is set. Ties are broken by group key ascending so the order is
// deterministic.
func Ranked(means Means, by pokedex.Stat, desc bool) []GroupStats {
	out := make([]GroupStats, 0, len(means))
	for key, m := range means {
		out = append(out, GroupStats{Key: key, Means: m})
	}

	slices.SortFunc(out, func(a, b GroupStats) int {
		c := cmp.Compare(a.Means[by], b.Means[by])
		if desc {
			c = -c
		}

		if c != 0 {
			return c
		}

		return cmp.Compare(a.Key, b.Key)
	})

	return out
}

// Count returns the number of rows per distinct non-null value of dim.
func Count(t *pokedex.Table, dim pokedex.Dimension) map[string]int {
	out := make(map[string]int)

	for i := 0; i < t.Len(); i++ {
		if key := dim.Value(t.Row(i)); key != "" {
			out[key]++
		}
	}

	return out
}
