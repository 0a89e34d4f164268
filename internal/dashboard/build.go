package dashboard

import (
	"fmt"
	"slices"

	"github.com/hupe1980/pokedash/internal/aggregate"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/palette"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

const (
	title    = "Pokédex Dashboard"
	subtitle = "Stats, types and origins of every creature in the dataset"
)

// metricStats are the stats highlighted as metric cards, in display order.
var metricStats = []pokedex.Stat{pokedex.Attack, pokedex.Defense, pokedex.Speed}

// seriesColors colors the series of grouped charts, by stat.
var seriesColors = map[pokedex.Stat]string{
	pokedex.Attack:  "#F08030",
	pokedex.Defense: "#6890F0",
	pokedex.Speed:   "#F8D030",
	pokedex.Total:   "#78C850",
}

// Build runs one render pass over full. Per-creature views (metrics,
// name charts, scatter, gallery) use the filtered rows; the group and
// ranking charts always describe the full table.
func Build(full *pokedex.Table, c filter.Criteria) (*View, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	chain := c.Chain()
	filtered := chain.Apply(full)

	v := &View{
		Title:    title,
		Subtitle: subtitle,
		Caption:  fmt.Sprintf("Showing %d of %d creatures", filtered.Len(), full.Len()),
		Criteria: c,
		Active:   chain.Describe(),
		Count:    filtered.Len(),
		Size:     full.Len(),
		Options:  OptionsFor(full),
	}

	metrics, err := metricCards(filtered)
	if err != nil {
		return nil, err
	}

	v.Metrics = metrics

	top, err := aggregate.TopN(full, TopCount, pokedex.Total)
	if err != nil {
		return nil, err
	}

	v.Charts = []Chart{
		byName(ChartAttackByName, "Attack by creature", filtered, pokedex.Attack),
		byName(ChartDefenseByName, "Defense by creature", filtered, pokedex.Defense),
		groupMeans(ChartCountryMeans, "Average stats by country", full, pokedex.CountryDimension,
			pokedex.Attack, pokedex.Attack, pokedex.Defense, pokedex.Speed),
		groupMeans(ChartTypeMeans, "Average stats by type", full, pokedex.TypeDimension,
			pokedex.Total, pokedex.Attack, pokedex.Defense, pokedex.Speed, pokedex.Total),
		byName(ChartTopTotal, fmt.Sprintf("Top %d by total", TopCount), top, pokedex.Total),
		scatter(ChartAttackVsDefense, "Attack vs defense", filtered, pokedex.Attack, pokedex.Defense),
	}

	v.Gallery = make([]Card, 0, filtered.Len())
	for i := 0; i < filtered.Len(); i++ {
		v.Gallery = append(v.Gallery, NewCard(filtered.Row(i)))
	}

	return v, nil
}

// NewCard converts a row to its display form.
func NewCard(r pokedex.Row) Card {
	return Card{
		ID:         r.ID,
		Name:       r.Name,
		Type:       r.Type,
		Attack:     r.Attack,
		Defense:    r.Defense,
		Speed:      r.Speed,
		Total:      r.Total,
		Country:    r.Country,
		Generation: r.Generation,
		Sprite:     r.Sprite,
		Color:      palette.ColorFor(r.Type),
	}
}

// metricCards returns the maxima of metricStats. An empty table yields no
// cards rather than an error.
func metricCards(t *pokedex.Table) ([]Metric, error) {
	if t.Len() == 0 {
		return []Metric{}, nil
	}

	out := make([]Metric, 0, len(metricStats))

	for _, s := range metricStats {
		r, err := aggregate.Extremum(t, s)
		if err != nil {
			return nil, err
		}

		out = append(out, Metric{
			Title:    "Highest " + s.String(),
			Stat:     s.String(),
			Value:    s.Value(r),
			Creature: NewCard(r),
		})
	}

	return out, nil
}

func byName(id, chartTitle string, t *pokedex.Table, stat pokedex.Stat) Chart {
	s := Series{Name: stat.String(), Color: seriesColors[stat], Points: make([]Point, 0, t.Len())}

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		s.Points = append(s.Points, Point{Label: r.Name, Y: float64(stat.Value(r))})
	}

	return Chart{ID: id, Kind: KindBar, Title: chartTitle, XAxis: "Name", YAxis: stat.String(), Series: []Series{s}}
}

// groupMeans charts the mean of stats per value of dim, groups ordered by
// the mean of rankBy descending.
func groupMeans(id, chartTitle string, t *pokedex.Table, dim pokedex.Dimension, rankBy pokedex.Stat, stats ...pokedex.Stat) Chart {
	groups := aggregate.Ranked(aggregate.GroupMean(t, dim, stats...), rankBy, true)

	c := Chart{ID: id, Kind: KindGroupedBar, Title: chartTitle, XAxis: dim.String(), YAxis: "Mean"}

	for _, s := range stats {
		series := Series{Name: s.String(), Color: seriesColors[s], Points: make([]Point, 0, len(groups))}
		for _, g := range groups {
			series.Points = append(series.Points, Point{Label: g.Key, Y: g.Means[s]})
		}

		c.Series = append(c.Series, series)
	}

	return c
}

func scatter(id, chartTitle string, t *pokedex.Table, x, y pokedex.Stat) Chart {
	s := Series{Name: "Creatures", Points: make([]Point, 0, t.Len())}

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		s.Points = append(s.Points, Point{
			Label: r.Name,
			X:     float64(x.Value(r)),
			Y:     float64(y.Value(r)),
			Color: palette.ColorFor(r.Type),
		})
	}

	return Chart{ID: id, Kind: KindScatter, Title: chartTitle, XAxis: x.String(), YAxis: y.String(), Series: []Series{s}}
}

// OptionsFor computes the filter control values offered for full.
func OptionsFor(full *pokedex.Table) Options {
	o := Options{
		Types:       full.Distinct(pokedex.TypeDimension),
		Countries:   full.Distinct(pokedex.CountryDimension),
		Generations: full.Distinct(pokedex.GenerationDimension),
	}

	pokedex.SortGenerations(o.Generations)
	slices.Sort(o.Types)
	slices.Sort(o.Countries)

	if lo, hi, err := aggregate.Bounds(full, pokedex.Total); err == nil {
		o.Total = filter.Range{Lo: lo, Hi: hi}
	}

	return o
}
