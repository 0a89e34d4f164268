package pokedex

import (
	"fmt"
	"slices"
)

// Generations lists the nine generation labels in chronological order.
var Generations = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}

// generationBounds are the bucket edges over row indexes. Bucket k covers
// [generationBounds[k], generationBounds[k+1]).
var generationBounds = []int{0, 152, 252, 387, 494, 650, 722, 810, 890, 1010}

// GenerationForIndex returns the generation label for a zero-based row
// index, or "" when the index falls outside [0, 1010).
func GenerationForIndex(i int) string {
	if i < generationBounds[0] || i >= generationBounds[len(generationBounds)-1] {
		return ""
	}

	for k := 1; k < len(generationBounds); k++ {
		if i < generationBounds[k] {
			return Generations[k-1]
		}
	}

	return ""
}

// GenerationOrder returns the chronological position of label, or -1 for an
// unknown label.
func GenerationOrder(label string) int {
	return slices.Index(Generations, label)
}

// SortGenerations orders labels chronologically. Unknown labels sort after
// the known ones, alphabetically.
func SortGenerations(labels []string) {
	slices.SortStableFunc(labels, func(a, b string) int {
		oa, ob := GenerationOrder(a), GenerationOrder(b)

		switch {
		case oa >= 0 && ob >= 0:
			return oa - ob
		case oa >= 0:
			return -1
		case ob >= 0:
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
}

// SpriteURL joins the sprite base URL with an identifier.
func SpriteURL(baseURL string, id int) string {
	return fmt.Sprintf("%s%d.png", baseURL, id)
}
