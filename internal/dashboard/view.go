// Package dashboard runs one render pass: it filters the full table with
// the user's criteria, computes metrics and aggregates, and returns a
// render-ready [View]. The View is consumed read-only by the HTML, text and
// serialized renderers.
package dashboard

import (
	"github.com/hupe1980/pokedash/internal/filter"
)

// GalleryColumns is the number of cards per gallery row.
const GalleryColumns = 5

// TopCount is the size of the top-by-Total chart.
const TopCount = 10

// Chart kinds.
const (
	KindBar        = "bar"
	KindGroupedBar = "grouped_bar"
	KindScatter    = "scatter"
)

// Chart identifiers, stable across renders and used in URLs.
const (
	ChartAttackByName    = "attack-by-name"
	ChartDefenseByName   = "defense-by-name"
	ChartCountryMeans    = "country-means"
	ChartTypeMeans       = "type-means"
	ChartTopTotal        = "top-total"
	ChartAttackVsDefense = "attack-vs-defense"
)

// View is the render-ready result of one pass.
type View struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Caption  string          `json:"caption"`
	Criteria filter.Criteria `json:"criteria"`
	Active   []string        `json:"active,omitempty"`

	// Count is the number of rows left after filtering; Size is the number
	// of rows in the full table.
	Count int `json:"count"`
	Size  int `json:"size"`

	Metrics []Metric `json:"metrics"`
	Charts  []Chart  `json:"charts"`
	Gallery []Card   `json:"gallery"`
	Options Options  `json:"options"`
}

// Chart returns the chart with the given id.
func (v *View) Chart(id string) (Chart, bool) {
	for _, c := range v.Charts {
		if c.ID == id {
			return c, true
		}
	}

	return Chart{}, false
}

// Metric is a highlighted creature, the maximum of one stat.
type Metric struct {
	Title    string `json:"title"`
	Stat     string `json:"stat"`
	Value    int    `json:"value"`
	Creature Card   `json:"creature"`
}

// Card is the display form of one row.
type Card struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Speed      int    `json:"speed"`
	Total      int    `json:"total"`
	Country    string `json:"country,omitempty"`
	Generation string `json:"generation,omitempty"`
	Sprite     string `json:"sprite"`
	Color      string `json:"color"`
}

// Chart describes one chart independently of how it is drawn.
type Chart struct {
	ID     string   `json:"id"`
	Kind   string   `json:"kind"`
	Title  string   `json:"title"`
	XAxis  string   `json:"xAxis,omitempty"`
	YAxis  string   `json:"yAxis,omitempty"`
	Series []Series `json:"series"`
}

// Empty reports whether the chart has no data points.
func (c Chart) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}

	return true
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is a labelled bar (Label, Y) or a scatter point (X, Y). Color
// overrides the series color for scatter points.
type Point struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

// Options are the values offered by the filter controls, always computed
// from the full table.
type Options struct {
	Types       []string     `json:"types"`
	Countries   []string     `json:"countries"`
	Generations []string     `json:"generations"`
	Total       filter.Range `json:"total"`
}
