package audit

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

func finding(id string, sev Severity, r pokedex.Row, format string, args ...any) Finding {
	return Finding{
		RuleID:     id,
		Severity:   sev,
		CreatureID: r.ID,
		Name:       r.Name,
		Message:    fmt.Sprintf(format, args...),
	}
}

// TotalConsistencyCheck flags rows whose Total is smaller than the sum of
// the Attack, Defense and Speed it includes.
type TotalConsistencyCheck struct{}

func (c *TotalConsistencyCheck) ID() string { return "DQ-001" }

func (c *TotalConsistencyCheck) Run(_ context.Context, t *pokedex.Table) []Finding {
	var out []Finding

	for _, r := range t.Rows() {
		if sum := r.Attack + r.Defense + r.Speed; r.Total < sum {
			out = append(out, finding(c.ID(), SeverityHigh, r,
				"Total %d is below Attack+Defense+Speed (%d)", r.Total, sum))
		}
	}

	return out
}

// MissingTypeCheck flags rows without a type: they match no type filter
// and render with the default color.
type MissingTypeCheck struct{}

func (c *MissingTypeCheck) ID() string { return "DQ-002" }

func (c *MissingTypeCheck) Run(_ context.Context, t *pokedex.Table) []Finding {
	var out []Finding

	for _, r := range t.Rows() {
		if r.Type == "" {
			out = append(out, finding(c.ID(), SeverityMedium, r, "type is empty"))
		}
	}

	return out
}

// UnknownGenerationCheck flags generation labels outside I..IX, which sort
// before every known generation.
type UnknownGenerationCheck struct{}

func (c *UnknownGenerationCheck) ID() string { return "DQ-003" }

func (c *UnknownGenerationCheck) Run(_ context.Context, t *pokedex.Table) []Finding {
	var out []Finding

	for _, r := range t.Rows() {
		if r.Generation != "" && !slices.Contains(pokedex.Generations, r.Generation) {
			out = append(out, finding(c.ID(), SeverityMedium, r, "unknown generation %q", r.Generation))
		}
	}

	return out
}

// DuplicateNameCheck flags names used by more than one row; charts keyed
// by name show them as separate bars with the same label.
type DuplicateNameCheck struct{}

func (c *DuplicateNameCheck) ID() string { return "DQ-004" }

func (c *DuplicateNameCheck) Run(_ context.Context, t *pokedex.Table) []Finding {
	first := make(map[string]int)

	var out []Finding

	for _, r := range t.Rows() {
		if id, dup := first[r.Name]; dup {
			out = append(out, finding(c.ID(), SeverityLow, r, "name also used by #%d", id))
			continue
		}

		first[r.Name] = r.ID
	}

	return out
}

// MissingCountryCheck reports rows without a country; they are left out of
// the per-country means.
type MissingCountryCheck struct{}

func (c *MissingCountryCheck) ID() string { return "DQ-005" }

func (c *MissingCountryCheck) Run(_ context.Context, t *pokedex.Table) []Finding {
	var out []Finding

	for _, r := range t.Rows() {
		if r.Country == "" {
			out = append(out, finding(c.ID(), SeverityInfo, r, "country is missing"))
		}
	}

	return out
}
