package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Range is an inclusive integer range [Lo, Hi].
type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v int) bool { return v >= r.Lo && v <= r.Hi }

// Validate rejects inverted ranges.
func (r Range) Validate() error {
	if r.Lo > r.Hi {
		return fmt.Errorf("range lower bound %d exceeds upper bound %d: %w", r.Lo, r.Hi, pokedex.ErrInvalidArgument)
	}

	return nil
}

// Criteria is the user's filter selection. Every field is optional; the
// zero value selects every row.
type Criteria struct {
	// Types lists exact type descriptors. Empty means any type.
	Types []string `json:"types,omitempty"`
	// Country is an exact country, or All / "" for any.
	Country string `json:"country,omitempty"`
	// Generation is an exact generation label, or All / "" for any.
	Generation string `json:"generation,omitempty"`
	// Total restricts the Total column. Nil means unbounded.
	Total *Range `json:"total,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (c Criteria) IsEmpty() bool {
	return len(c.Types) == 0 && isAll(c.Country) && isAll(c.Generation) && c.Total == nil
}

// Validate checks the criteria for consistency.
func (c Criteria) Validate() error {
	if c.Total != nil {
		if err := c.Total.Validate(); err != nil {
			return fmt.Errorf("total: %w", err)
		}
	}

	return nil
}

// Chain builds the predicate chain for the criteria.
func (c Criteria) Chain() *Chain {
	var preds []Predicate

	if len(c.Types) > 0 {
		preds = append(preds, NewTypeIn(c.Types...))
	}

	if !isAll(c.Country) {
		preds = append(preds, CountryEquals(c.Country))
	}

	if !isAll(c.Generation) {
		preds = append(preds, GenerationEquals(c.Generation))
	}

	if c.Total != nil {
		preds = append(preds, TotalBetween(*c.Total))
	}

	return NewChain(preds...)
}

// Query encodes the criteria as URL query parameters, the inverse of
// FromQuery.
func (c Criteria) Query() url.Values {
	q := url.Values{}

	for _, t := range c.Types {
		q.Add("type", t)
	}

	if !isAll(c.Country) {
		q.Set("country", c.Country)
	}

	if !isAll(c.Generation) {
		q.Set("generation", c.Generation)
	}

	if c.Total != nil {
		q.Set("min_total", strconv.Itoa(c.Total.Lo))
		q.Set("max_total", strconv.Itoa(c.Total.Hi))
	}

	return q
}

// FromQuery parses criteria from URL query parameters: repeated "type",
// "country", "generation", "min_total" and "max_total". When only one
// bound is given the other is taken from bounds, the data's observed
// Total range.
func FromQuery(q url.Values, bounds Range) (Criteria, error) {
	var c Criteria

	for _, t := range q["type"] {
		if t = strings.TrimSpace(t); t != "" {
			c.Types = append(c.Types, t)
		}
	}

	c.Country = strings.TrimSpace(q.Get("country"))
	c.Generation = strings.TrimSpace(q.Get("generation"))

	lo, hasLo, err := intParam(q, "min_total")
	if err != nil {
		return Criteria{}, err
	}

	hi, hasHi, err := intParam(q, "max_total")
	if err != nil {
		return Criteria{}, err
	}

	if hasLo || hasHi {
		r := bounds
		if hasLo {
			r.Lo = lo
		}

		if hasHi {
			r.Hi = hi
		}

		c.Total = &r
	}

	return c, c.Validate()
}

func intParam(q url.Values, key string) (int, bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %q is not an integer: %w", key, raw, pokedex.ErrInvalidArgument)
	}

	return v, true, nil
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}
