package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// All is the "no constraint" sentinel for single-select filters. The empty
// string is treated the same way.
const All = "all"

// Predicate is the interface for all row filters.
// Predicates are stateless and never modify the rows they inspect.
type Predicate interface {
	// Match reports whether r satisfies the predicate.
	Match(r pokedex.Row) bool
	// String describes the predicate for logs and captions.
	String() string
}

// TypeIn keeps rows whose full type descriptor is one of the listed strings.
// Matching is exact: a "fire/flying" row only matches if "fire/flying"
// itself is listed.
type TypeIn struct {
	set map[string]bool
	raw []string
}

// NewTypeIn creates a TypeIn predicate.
func NewTypeIn(types ...string) *TypeIn {
	p := &TypeIn{set: make(map[string]bool, len(types))}

	for _, t := range types {
		if !p.set[t] {
			p.set[t] = true
			p.raw = append(p.raw, t)
		}
	}

	return p
}

// Match implements Predicate.
func (p *TypeIn) Match(r pokedex.Row) bool { return p.set[r.Type] }

func (p *TypeIn) String() string {
	return fmt.Sprintf("type in [%s]", strings.Join(p.raw, ", "))
}

// CountryEquals keeps rows from exactly one country.
type CountryEquals string

// Match implements Predicate.
func (p CountryEquals) Match(r pokedex.Row) bool { return r.Country == string(p) }

func (p CountryEquals) String() string { return fmt.Sprintf("country = %s", string(p)) }

// GenerationEquals keeps rows of exactly one generation label.
type GenerationEquals string

// Match implements Predicate.
func (p GenerationEquals) Match(r pokedex.Row) bool { return r.Generation == string(p) }

func (p GenerationEquals) String() string { return fmt.Sprintf("generation = %s", string(p)) }

// TotalBetween keeps rows whose Total lies in the inclusive range.
type TotalBetween Range

// Match implements Predicate.
func (p TotalBetween) Match(r pokedex.Row) bool { return Range(p).Contains(r.Total) }

func (p TotalBetween) String() string { return fmt.Sprintf("total in [%d, %d]", p.Lo, p.Hi) }

// Chain applies predicates conjunctively.
type Chain struct {
	predicates []Predicate
}

// NewChain creates a chain from the given predicates. Nil predicates are
// dropped.
func NewChain(predicates ...Predicate) *Chain {
	return &Chain{predicates: slices.DeleteFunc(slices.Clone(predicates), func(p Predicate) bool { return p == nil })}
}

// Len returns the number of active predicates.
func (c *Chain) Len() int { return len(c.predicates) }

// Match reports whether r satisfies every predicate. An empty chain matches
// everything.
func (c *Chain) Match(r pokedex.Row) bool {
	for _, p := range c.predicates {
		if !p.Match(r) {
			return false
		}
	}

	return true
}

// Apply returns a new table with the matching rows of t in their original
// order. A result with zero rows is valid.
func (c *Chain) Apply(t *pokedex.Table) *pokedex.Table {
	return t.Select(c.Match)
}

// Describe returns one line per predicate.
func (c *Chain) Describe() []string {
	out := make([]string, 0, len(c.predicates))
	for _, p := range c.predicates {
		out = append(out, p.String())
	}

	return out
}

// Apply is shorthand for c.Chain().Apply(t).
func Apply(t *pokedex.Table, c Criteria) *pokedex.Table {
	return c.Chain().Apply(t)
}
