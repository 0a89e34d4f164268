// Package render turns a [dashboard.View] into something a person can look
// at: a standalone HTML page with inline SVG charts, a terminal report, or
// a single chart as SVG.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strings"

	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/palette"
)

//go:embed templates/dashboard.html
var dashboardTemplate string

// galleryTint is the alpha suffix of gallery card backgrounds.
const galleryTint = "22"

var page = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"tint":     func(c string) string { return palette.Tint(c, galleryTint) },
	"selected": func(list []string, v string) bool { return slices.Contains(list, v) },
	"isAll":    func(v string) bool { return v == "" || strings.EqualFold(v, filter.All) },
}).Parse(dashboardTemplate))

// HTMLOptions tweaks the generated page.
type HTMLOptions struct {
	// Interactive renders the sidebar filter form. Static exports omit it.
	Interactive bool
	// Action is the form target, "/" when empty.
	Action string
}

type htmlChart struct {
	dashboard.Chart
	SVG template.HTML
}

type htmlPage struct {
	*dashboard.View
	Opts      HTMLOptions
	Charts    []htmlChart
	Rows      [][]dashboard.Card
	Columns   int
	MinTotal  int
	MaxTotal  int
	Country   string
	Gen       string
	AllMarker string
}

// HTML writes v as a complete HTML document.
func HTML(w io.Writer, v *dashboard.View, opts HTMLOptions) error {
	if opts.Action == "" {
		opts.Action = "/"
	}

	p := htmlPage{
		View:      v,
		Opts:      opts,
		Rows:      GalleryRows(v.Gallery, dashboard.GalleryColumns),
		Columns:   dashboard.GalleryColumns,
		MinTotal:  v.Options.Total.Lo,
		MaxTotal:  v.Options.Total.Hi,
		Country:   v.Criteria.Country,
		Gen:       v.Criteria.Generation,
		AllMarker: filter.All,
	}

	if t := v.Criteria.Total; t != nil {
		p.MinTotal, p.MaxTotal = t.Lo, t.Hi
	}

	for _, c := range v.Charts {
		svg, err := SVG(c)
		if err != nil {
			return err
		}

		p.Charts = append(p.Charts, htmlChart{Chart: c, SVG: template.HTML(svg)}) //nolint:gosec // generated by go-chart
	}

	if err := page.Execute(w, p); err != nil {
		return fmt.Errorf("executing dashboard template: %w", err)
	}

	return nil
}

// GalleryRows splits cards into rows of at most cols cards.
func GalleryRows(cards []dashboard.Card, cols int) [][]dashboard.Card {
	if cols <= 0 {
		cols = 1
	}

	rows := make([][]dashboard.Card, 0, (len(cards)+cols-1)/cols)
	for chunk := range slices.Chunk(cards, cols) {
		rows = append(rows, chunk)
	}

	return rows
}
