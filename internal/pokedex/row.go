package pokedex

import (
	"fmt"
	"strings"
)

// Row is one creature's full record of attributes.
type Row struct {
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
}

// Stat identifies a numeric column of a Row.
type Stat int

// Numeric columns.
const (
	Attack Stat = iota
	Defense
	Speed
	Total
)

// Stats lists every numeric column in display order.
var Stats = []Stat{Attack, Defense, Speed, Total}

// String returns the canonical column name.
func (s Stat) String() string {
	switch s {
	case Attack:
		return "Attack"
	case Defense:
		return "Defense"
	case Speed:
		return "Speed"
	case Total:
		return "Total"
	default:
		return fmt.Sprintf("Stat(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler so Stat can key JSON maps.
func (s Stat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Value returns the stat value of r.
func (s Stat) Value(r Row) int {
	switch s {
	case Attack:
		return r.Attack
	case Defense:
		return r.Defense
	case Speed:
		return r.Speed
	case Total:
		return r.Total
	default:
		return 0
	}
}

// ParseStat resolves a column name (case-insensitive) to a Stat.
func ParseStat(name string) (Stat, error) {
	for _, s := range Stats {
		if strings.EqualFold(strings.TrimSpace(name), s.String()) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("unknown stat %q (must be one of Attack, Defense, Speed, Total): %w", name, ErrInvalidArgument)
}

// Dimension identifies a categorical column of a Row usable for grouping.
type Dimension int

// Grouping columns.
const (
	TypeDimension Dimension = iota
	CountryDimension
	GenerationDimension
)

// String returns the canonical column name.
func (d Dimension) String() string {
	switch d {
	case TypeDimension:
		return "Type"
	case CountryDimension:
		return "Country"
	case GenerationDimension:
		return "Generation"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// Value returns the dimension value of r. An empty string means null.
func (d Dimension) Value(r Row) string {
	switch d {
	case TypeDimension:
		return r.Type
	case CountryDimension:
		return r.Country
	case GenerationDimension:
		return r.Generation
	default:
		return ""
	}
}

// ParseDimension resolves a column name (case-insensitive) to a Dimension.
func ParseDimension(name string) (Dimension, error) {
	for _, d := range []Dimension{TypeDimension, CountryDimension, GenerationDimension} {
		if strings.EqualFold(strings.TrimSpace(name), d.String()) {
			return d, nil
		}
	}

	return 0, fmt.Errorf("unknown dimension %q (must be one of Type, Country, Generation): %w", name, ErrInvalidArgument)
}
