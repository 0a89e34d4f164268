package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/pokedash/internal/dashboard"
)

// barCells is the width of the longest bar in text charts.
const barCells = 40

// TextOptions tweaks the terminal report.
type TextOptions struct {
	NoColor bool
}

type textStyles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
	metric  lipgloss.Style
	value   lipgloss.Style
	cell    lipgloss.Style
	header  lipgloss.Style
	card    func(color string) lipgloss.Style
	bar     func(color string) lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer, noColor bool) textStyles {
	s := textStyles{
		title:   r.NewStyle().Bold(true).MarginBottom(1),
		muted:   r.NewStyle(),
		heading: r.NewStyle().Bold(true).MarginTop(1),
		metric:  r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(24),
		value:   r.NewStyle().Bold(true),
		cell:    r.NewStyle().PaddingRight(2),
		header:  r.NewStyle().Bold(true).PaddingRight(2),
		card: func(string) lipgloss.Style {
			return r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(18)
		},
		bar: func(string) lipgloss.Style { return r.NewStyle() },
	}

	if noColor {
		return s
	}

	s.title = s.title.Foreground(lipgloss.Color("#F08030"))
	s.muted = s.muted.Foreground(lipgloss.Color("#888888"))
	s.metric = s.metric.BorderForeground(lipgloss.Color("#6890F0"))
	s.value = s.value.Foreground(lipgloss.Color("#F8D030"))
	s.card = func(color string) lipgloss.Style {
		return r.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color(color)).Padding(0, 1).Width(18)
	}
	s.bar = func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}

	return s
}

// Text writes v as a terminal report.
func Text(w io.Writer, v *dashboard.View, opts TextOptions) error {
	st := newTextStyles(lipgloss.NewRenderer(w), opts.NoColor)

	var sb strings.Builder

	sb.WriteString(st.title.Render(v.Title))
	sb.WriteString("\n")
	sb.WriteString(v.Caption + "\n")

	if len(v.Active) > 0 {
		sb.WriteString(st.muted.Render("Filters: " + strings.Join(v.Active, " · ")))
		sb.WriteString("\n")
	}

	if len(v.Metrics) == 0 {
		sb.WriteString("\nNo creatures match the current filters.\n")
	} else {
		cards := make([]string, 0, len(v.Metrics))
		for _, m := range v.Metrics {
			cards = append(cards, st.metric.Render(
				m.Title+"\n"+st.value.Render(strconv.Itoa(m.Value))+"\n"+m.Creature.Name))
		}

		sb.WriteString("\n")
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		sb.WriteString("\n")
	}

	for _, c := range v.Charts {
		sb.WriteString(st.heading.Render(c.Title))
		sb.WriteString("\n")

		if c.Empty() {
			sb.WriteString(st.muted.Render("No data"))
			sb.WriteString("\n")

			continue
		}

		switch c.Kind {
		case dashboard.KindBar:
			writeBars(&sb, st, c)
		case dashboard.KindGroupedBar:
			writeGroups(&sb, st, c)
		case dashboard.KindScatter:
			writePoints(&sb, st, c)
		}
	}

	if len(v.Gallery) > 0 {
		sb.WriteString(st.heading.Render("Gallery"))
		sb.WriteString("\n")

		for _, row := range GalleryRows(v.Gallery, dashboard.GalleryColumns) {
			cards := make([]string, 0, len(row))
			for _, card := range row {
				cards = append(cards, st.card(card.Color).Render(
					fmt.Sprintf("%s\n#%d %s\nTotal %d", card.Name, card.ID, card.Type, card.Total)))
			}

			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
			sb.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}

	return nil
}

func writeBars(sb *strings.Builder, st textStyles, c dashboard.Chart) {
	s := c.Series[0]

	var (
		labelWidth int
		peak       float64
	)

	for _, p := range s.Points {
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
		peak = max(peak, p.Y)
	}

	for _, p := range s.Points {
		n := 0
		if peak > 0 {
			n = int(p.Y / peak * barCells)
		}

		fmt.Fprintf(sb, "%-*s %s %.0f\n", labelWidth, p.Label, st.bar(s.Color).Render(strings.Repeat("█", n)), p.Y)
	}
}

func writeGroups(sb *strings.Builder, st textStyles, c dashboard.Chart) {
	headers := []string{c.XAxis}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
	}

	rows := make([][]string, 0, len(c.Series[0].Points))

	for i, p := range c.Series[0].Points {
		row := []string{p.Label}
		for _, s := range c.Series {
			row = append(row, strconv.FormatFloat(s.Points[i].Y, 'f', 1, 64))
		}

		rows = append(rows, row)
	}

	writeTable(sb, st, headers, rows)
}

func writePoints(sb *strings.Builder, st textStyles, c dashboard.Chart) {
	headers := []string{"Name", c.XAxis, c.YAxis}
	rows := make([][]string, 0, len(c.Series[0].Points))

	for _, s := range c.Series {
		for _, p := range s.Points {
			rows = append(rows, []string{p.Label, strconv.FormatFloat(p.X, 'f', 0, 64), strconv.FormatFloat(p.Y, 'f', 0, 64)})
		}
	}

	writeTable(sb, st, headers, rows)
}

func writeTable(sb *strings.Builder, st textStyles, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(style lipgloss.Style, cells []string) {
		for i, cell := range cells {
			// Width includes the right padding.
			sb.WriteString(style.Width(widths[i] + 2).Render(cell))
		}

		sb.WriteString("\n")
	}

	line(st.header, headers)

	for _, row := range rows {
		line(st.cell, row)
	}
}
