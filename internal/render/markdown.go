package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/pokedash/internal/dashboard"
)

// Markdown writes v as a Markdown report: highlights, one table per chart,
// and the gallery with inline sprite images.
func Markdown(w io.Writer, v *dashboard.View) error {
	fmt.Fprintf(w, "# %s\n\n", v.Title)
	fmt.Fprintf(w, "_%s_\n\n", v.Subtitle)
	fmt.Fprintf(w, "**%s**", v.Caption)

	if len(v.Active) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(v.Active, " · "))
	}

	fmt.Fprint(w, "\n\n")

	fmt.Fprintf(w, "## Highlights\n\n")

	if len(v.Metrics) == 0 {
		fmt.Fprintf(w, "No creatures match the current filters.\n\n")
	} else {
		fmt.Fprintln(w, "| Metric | Creature | Value |")
		fmt.Fprintln(w, "|--------|----------|-------|")

		for _, m := range v.Metrics {
			fmt.Fprintf(w, "| %s | %s | %d |\n", m.Title, m.Creature.Name, m.Value)
		}

		fmt.Fprintln(w)
	}

	for _, c := range v.Charts {
		fmt.Fprintf(w, "## %s\n\n", c.Title)

		if c.Empty() {
			fmt.Fprintf(w, "_No data_\n\n")
			continue
		}

		if err := writeMarkdownChart(w, c); err != nil {
			return err
		}

		fmt.Fprintln(w)
	}

	if len(v.Gallery) > 0 {
		fmt.Fprintf(w, "## Gallery\n\n")
		fmt.Fprintln(w, "| # | Sprite | Name | Type | Total |")
		fmt.Fprintln(w, "|---|--------|------|------|-------|")

		for _, card := range v.Gallery {
			fmt.Fprintf(w, "| %d | ![%s](%s) | %s | %s | %d |\n",
				card.ID, card.Name, card.Sprite, card.Name, dashOr(card.Type), card.Total)
		}
	}

	return nil
}

// writeMarkdownChart renders the data of one chart as a table: one column
// per series, one row per label. Scatter charts list X and Y per point.
func writeMarkdownChart(w io.Writer, c dashboard.Chart) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	switch c.Kind {
	case dashboard.KindScatter:
		fmt.Fprintf(tw, "| Name\t| %s\t| %s\t|\n", c.XAxis, c.YAxis)
		fmt.Fprintln(tw, "|---\t|---\t|---\t|")

		for _, p := range c.Series[0].Points {
			fmt.Fprintf(tw, "| %s\t| %s\t| %s\t|\n", p.Label, formatNumber(p.X), formatNumber(p.Y))
		}
	case dashboard.KindBar, dashboard.KindGroupedBar:
		header := "| " + c.XAxis + "\t"
		rule := "|---\t"

		for _, s := range c.Series {
			header += "| " + s.Name + "\t"
			rule += "|---\t"
		}

		fmt.Fprintln(tw, header+"|")
		fmt.Fprintln(tw, rule+"|")

		for i, p := range c.Series[0].Points {
			row := "| " + p.Label + "\t"
			for _, s := range c.Series {
				row += "| " + formatNumber(s.Points[i].Y) + "\t"
			}

			fmt.Fprintln(tw, row+"|")
		}
	default:
		return fmt.Errorf("chart %s: unknown kind %q", c.ID, c.Kind)
	}

	return tw.Flush()
}

// formatNumber prints integral values without decimals and means with one.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'f', 1, 64)
}

func dashOr(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
