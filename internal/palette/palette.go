// Package palette maps creature type descriptors to display colors.
package palette

import "strings"

// DefaultColor is used for unknown or missing types.
const DefaultColor = "#DDDDDD"

// typeColors keys are lowercase primary types.
var typeColors = map[string]string{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"grass":    "#78C850",
	"electric": "#F8D030",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

// PrimaryType returns the lowercased, trimmed substring before the first
// "/" of a type descriptor.
func PrimaryType(descriptor string) string {
	primary, _, _ := strings.Cut(descriptor, "/")
	return strings.ToLower(strings.TrimSpace(primary))
}

// ColorFor returns the color of the descriptor's primary type, or
// DefaultColor.
func ColorFor(descriptor string) string {
	if c, ok := typeColors[PrimaryType(descriptor)]; ok {
		return c
	}

	return DefaultColor
}

// Tint returns color with a two-digit hex alpha suffix, e.g. "#F0803022".
func Tint(color, alpha string) string {
	return color + alpha
}
