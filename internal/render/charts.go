package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/palette"
)

const (
	chartHeight   = 360
	minChartWidth = 640
	maxChartWidth = 6000
	barWidth      = 18
	barSpacing    = 4
	dotWidth      = 4
)

// emptySVG is drawn for charts without data points.
const emptySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="640" height="80">` +
	`<text x="16" y="44" font-family="sans-serif" font-size="14" fill="#888">No data</text></svg>`

// SVG draws c as a standalone SVG document. Bar and grouped-bar charts are
// drawn as a go-chart BarChart; grouped series are interleaved per label
// and told apart by color. Scatter charts use dot-only series.
func SVG(c dashboard.Chart) ([]byte, error) {
	if c.Empty() {
		return []byte(emptySVG), nil
	}

	var (
		buf bytes.Buffer
		err error
	)

	switch c.Kind {
	case dashboard.KindBar, dashboard.KindGroupedBar:
		err = barChart(c).Render(chart.SVG, &buf)
	case dashboard.KindScatter:
		err = scatterChart(c).Render(chart.SVG, &buf)
	default:
		return nil, fmt.Errorf("chart %s: unknown kind %q", c.ID, c.Kind)
	}

	if err != nil {
		return nil, fmt.Errorf("rendering chart %s: %w", c.ID, err)
	}

	return buf.Bytes(), nil
}

func barChart(c dashboard.Chart) chart.BarChart {
	var (
		bars []chart.Value
		peak float64
	)

	labels := c.Series[0].Points

	for i, p := range labels {
		for j, s := range c.Series {
			if i >= len(s.Points) {
				continue
			}

			label := ""
			if j == 0 {
				label = p.Label
			}

			v := s.Points[i].Y
			peak = math.Max(peak, v)

			bars = append(bars, chart.Value{
				Label: label,
				Value: v,
				Style: chart.Style{
					FillColor:   color(s.Color),
					StrokeColor: color(s.Color),
					StrokeWidth: 1,
				},
			})
		}
	}

	return chart.BarChart{
		Title:      c.Title,
		Width:      clampWidth(len(bars) * (barWidth + barSpacing)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: 7},
		YAxis: chart.YAxis{
			Name:           c.YAxis,
			Range:          &chart.ContinuousRange{Min: 0, Max: axisMax(peak)},
			ValueFormatter: integerFormatter,
		},
		Bars: bars,
	}
}

func scatterChart(c dashboard.Chart) chart.Chart {
	var (
		series     []chart.Series
		xMax, yMax float64
	)

	for _, s := range c.Series {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		colors := make([]drawing.Color, 0, len(s.Points))

		for _, p := range s.Points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			xMax = math.Max(xMax, p.X)
			yMax = math.Max(yMax, p.Y)

			hex := p.Color
			if hex == "" {
				hex = s.Color
			}

			colors = append(colors, color(hex))
		}

		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dotWidth,
				DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
					return colors[index]
				},
			},
		})
	}

	return chart.Chart{
		Title:      c.Title,
		Width:      minChartWidth,
		Height:     chartHeight + 120,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           c.XAxis,
			Range:          &chart.ContinuousRange{Min: 0, Max: axisMax(xMax)},
			ValueFormatter: integerFormatter,
		},
		YAxis: chart.YAxis{
			Name:           c.YAxis,
			Range:          &chart.ContinuousRange{Min: 0, Max: axisMax(yMax)},
			ValueFormatter: integerFormatter,
		},
		Series: series,
	}
}

// color parses "#RRGGBB"; an empty string yields the default palette color.
func color(hex string) drawing.Color {
	if hex == "" {
		hex = palette.DefaultColor
	}

	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// axisMax pads the largest value so the top point is not drawn on the
// frame. Never zero, go-chart rejects empty ranges.
func axisMax(peak float64) float64 {
	if peak <= 0 {
		return 1
	}

	return math.Ceil(peak * 1.1)
}

func clampWidth(w int) int {
	return min(max(w+120, minChartWidth), maxChartWidth)
}

func integerFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}

	return ""
}
