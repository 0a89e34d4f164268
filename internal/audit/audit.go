// Package audit runs data-quality checks over a loaded creature table.
// Findings point at rows the dashboard renders in a degraded way (missing
// groups, default colors) or whose stats contradict each other.
package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// Severity ranks the impact of a finding.
type Severity int

const (
	// SeverityInfo is purely informational.
	SeverityInfo Severity = iota
	// SeverityLow indicates a minor concern.
	SeverityLow
	// SeverityMedium indicates a row that renders in a degraded way.
	SeverityMedium
	// SeverityHigh indicates inconsistent data.
	SeverityHigh
)

// String returns the lowercase label for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalText encodes the severity as its label.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses a severity string (case-insensitive).
// Returns an error for unrecognised values.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q, valid values: high, medium, low, info: %w",
			s, pokedex.ErrInvalidArgument)
	}
}

// Finding represents a single audit result.
type Finding struct {
	RuleID     string   `json:"ruleId"`
	Severity   Severity `json:"severity"`
	CreatureID int      `json:"creatureId"`
	Name       string   `json:"name"`
	Message    string   `json:"message"`
}

// Check is the interface every audit rule must implement.
type Check interface {
	// ID returns the unique rule identifier (e.g. "DQ-001").
	ID() string
	// Run evaluates the table and returns any findings.
	Run(ctx context.Context, t *pokedex.Table) []Finding
}

// Result aggregates findings from all checks.
type Result struct {
	Findings []Finding      `json:"findings"`
	Summary  map[string]int `json:"summary"`
}

// Passed returns true when no finding meets or exceeds the threshold severity.
func (r *Result) Passed(threshold Severity) bool {
	for _, f := range r.Findings {
		if f.Severity >= threshold {
			return false
		}
	}

	return true
}

// Auditor orchestrates a set of checks against a table.
type Auditor struct {
	checks []Check
}

// New creates an Auditor with the given checks.
func New(checks ...Check) *Auditor {
	return &Auditor{checks: checks}
}

// Run executes every registered check and returns the result.
func (a *Auditor) Run(ctx context.Context, t *pokedex.Table) *Result {
	all := []Finding{}

	for _, chk := range a.checks {
		if ctx.Err() != nil {
			break
		}

		all = append(all, chk.Run(ctx, t)...)
	}

	// Sort: severity descending, then rule ID, then creature ID.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity > all[j].Severity
		}

		if all[i].RuleID != all[j].RuleID {
			return all[i].RuleID < all[j].RuleID
		}

		return all[i].CreatureID < all[j].CreatureID
	})

	summary := make(map[string]int)
	for _, f := range all {
		summary[f.Severity.String()]++
	}

	return &Result{Findings: all, Summary: summary}
}

// DefaultChecks returns every built-in check.
func DefaultChecks() []Check {
	return []Check{
		&TotalConsistencyCheck{},
		&MissingTypeCheck{},
		&UnknownGenerationCheck{},
		&DuplicateNameCheck{},
		&MissingCountryCheck{},
	}
}
