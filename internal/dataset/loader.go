// Package dataset reads the creature CSV into an immutable [pokedex.Table]
// and memoizes the result for the lifetime of the process.
//
// Loading is strict: source column names are renamed to the canonical
// scheme once, the required columns are checked, every stat must parse as a
// non-negative integer and identifiers must be unique. Any violation is
// reported as [pokedex.ErrDataUnavailable].
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// DefaultSpriteBaseURL is the sprite host prefix; the identifier and ".png"
// are appended to it.
const DefaultSpriteBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/"

// Canonical column names.
const (
	ColumnID         = "ID"
	ColumnName       = "Name"
	ColumnType       = "Type"
	ColumnAttack     = "Attack"
	ColumnDefense    = "Defense"
	ColumnSpeed      = "Speed"
	ColumnTotal      = "Total"
	ColumnCountry    = "Country"
	ColumnGeneration = "Generation"
)

// sourceRenames maps the source naming scheme to canonical names. Absent
// source columns are ignored.
var sourceRenames = map[string]string{
	"Nombre":     ColumnName,
	"Tipo":       ColumnType,
	"Ataque":     ColumnAttack,
	"Defensa":    ColumnDefense,
	"Velocidad":  ColumnSpeed,
	"País":       ColumnCountry,
	"Generación": ColumnGeneration,
}

// RequiredColumns must be present after renaming.
var RequiredColumns = []string{
	ColumnID, ColumnName, ColumnType,
	ColumnAttack, ColumnDefense, ColumnSpeed, ColumnTotal,
	ColumnCountry,
}

// nullValues are cell values treated as null in nullable columns.
var nullValues = map[string]bool{"": true, "NA": true, "NaN": true, "nan": true}

// Option configures Load and Read.
type Option func(*options)

type options struct {
	spriteBaseURL string
	logger        *slog.Logger
}

// WithSpriteBaseURL overrides DefaultSpriteBaseURL.
func WithSpriteBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.spriteBaseURL = url
		}
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		spriteBaseURL: DefaultSpriteBaseURL,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Load reads the dataset at path.
func Load(path string, opts ...Option) (*pokedex.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", path, pokedex.ErrDataUnavailable, err)
	}

	t, err := Read(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return t, nil
}

// Read parses a dataset from r.
func Read(r io.Reader, opts ...Option) (*pokedex.Table, error) {
	o := applyOptions(opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w: %w", pokedex.ErrDataUnavailable, err)
	}

	// gota rejects frames without records, but a header-only file is a
	// valid, empty dataset.
	if header, ok := headerOnly(data); ok {
		if err := checkColumns(canonicalNames(header)); err != nil {
			return nil, err
		}

		o.logger.Debug("dataset parsed", slog.Int("rows", 0))

		return pokedex.NewTable(nil), nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parsing CSV: %w: %w", pokedex.ErrDataUnavailable, df.Err)
	}

	df = canonicalize(df)

	if err := checkColumns(df.Names()); err != nil {
		return nil, err
	}

	rows, err := buildRows(df, o.spriteBaseURL)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("dataset parsed",
		slog.Int("rows", len(rows)),
		slog.Bool("derivedGeneration", !hasColumn(df, ColumnGeneration)),
	)

	return pokedex.NewTable(rows), nil
}

// canonicalNames trims header cells and maps source names to canonical
// ones. A rename is skipped when the canonical column already exists.
func canonicalNames(names []string) []string {
	out := slices.Clone(names)

	for i, name := range names {
		clean := strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if target, ok := sourceRenames[clean]; ok {
			clean = target
		}

		if clean == name || slices.Contains(out, clean) {
			continue
		}

		out[i] = clean
	}

	return out
}

func canonicalize(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()

	for i, clean := range canonicalNames(names) {
		if clean != names[i] {
			df = df.Rename(clean, names[i])
		}
	}

	return df
}

// headerOnly returns the header of data when it is the only record.
func headerOnly(data []byte) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, false
	}

	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, false
	}

	return header, true
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}

	return false
}

func checkColumns(names []string) error {
	var missing []string

	for _, c := range RequiredColumns {
		if !slices.Contains(names, c) {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s) %s: %w", strings.Join(missing, ", "), pokedex.ErrDataUnavailable)
	}

	return nil
}

func buildRows(df dataframe.DataFrame, spriteBaseURL string) ([]pokedex.Row, error) {
	n := df.Nrow()
	col := func(name string) []string { return df.Col(name).Records() }

	ids, names, types := col(ColumnID), col(ColumnName), col(ColumnType)
	attack, defense, speed, total := col(ColumnAttack), col(ColumnDefense), col(ColumnSpeed), col(ColumnTotal)
	countries := col(ColumnCountry)

	var generations []string
	if hasColumn(df, ColumnGeneration) {
		generations = col(ColumnGeneration)
	}

	rows := make([]pokedex.Row, 0, n)
	seen := make(map[int]int, n)

	for i := 0; i < n; i++ {
		id, err := parseInt(ColumnID, i, ids[i])
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("row %d: duplicate %s %d (first seen at row %d): %w", i, ColumnID, id, prev, pokedex.ErrDataUnavailable)
		}

		seen[id] = i

		r := pokedex.Row{
			ID:      id,
			Name:    strings.TrimSpace(names[i]),
			Type:    strings.TrimSpace(types[i]),
			Country: nullable(countries[i]),
			Sprite:  pokedex.SpriteURL(spriteBaseURL, id),
		}

		for _, f := range []struct {
			column string
			raw    string
			dst    *int
		}{
			{ColumnAttack, attack[i], &r.Attack},
			{ColumnDefense, defense[i], &r.Defense},
			{ColumnSpeed, speed[i], &r.Speed},
			{ColumnTotal, total[i], &r.Total},
		} {
			v, err := parseInt(f.column, i, f.raw)
			if err != nil {
				return nil, err
			}

			*f.dst = v
		}

		if generations != nil {
			r.Generation = nullable(generations[i])
		} else {
			r.Generation = pokedex.GenerationForIndex(i)
		}

		rows = append(rows, r)
	}

	return rows, nil
}

func parseInt(column string, row int, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// Exported CSVs sometimes carry integral floats ("45.0").
		f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("row %d: column %s: %q is not an integer: %w", row, column, raw, pokedex.ErrDataUnavailable)
		}

		v = int(f)
	}

	if v < 0 {
		return 0, fmt.Errorf("row %d: column %s: negative value %d: %w", row, column, v, pokedex.ErrDataUnavailable)
	}

	return v, nil
}

func nullable(raw string) string {
	v := strings.TrimSpace(raw)
	if nullValues[v] {
		return ""
	}

	return v
}
