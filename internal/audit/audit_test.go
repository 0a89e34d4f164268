package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

func table() *pokedex.Table {
	return pokedex.NewTable([]pokedex.Row{
		{ID: 1, Name: "Bulbasaur", Type: "grass/poison", Attack: 49, Defense: 49, Speed: 45, Total: 318, Country: "Japan", Generation: "I"},
		{ID: 2, Name: "Glitch", Type: "", Attack: 90, Defense: 90, Speed: 90, Total: 100, Country: "", Generation: "X"},
		{ID: 3, Name: "Bulbasaur", Type: "grass", Attack: 1, Defense: 1, Speed: 1, Total: 10, Country: "Peru", Generation: "II"},
	})
}

// ---------------------------------------------------------------------------
// Severity
// ---------------------------------------------------------------------------

func TestParseSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh} {
		got, err := ParseSeverity(" " + s.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseSeverity("critical")
	assert.ErrorIs(t, err, pokedex.ErrInvalidArgument)
}

func TestSeverity_JSON(t *testing.T) {
	b, err := json.Marshal(Finding{RuleID: "DQ-001", Severity: SeverityHigh})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"severity":"high"`)
}

// ---------------------------------------------------------------------------
// Checks
// ---------------------------------------------------------------------------

func TestChecks(t *testing.T) {
	tests := []struct {
		check Check
		ids   []int
	}{
		{&TotalConsistencyCheck{}, []int{2}},
		{&MissingTypeCheck{}, []int{2}},
		{&UnknownGenerationCheck{}, []int{2}},
		{&DuplicateNameCheck{}, []int{3}},
		{&MissingCountryCheck{}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.check.ID(), func(t *testing.T) {
			var ids []int
			for _, f := range tt.check.Run(context.Background(), table()) {
				assert.Equal(t, tt.check.ID(), f.RuleID)
				ids = append(ids, f.CreatureID)
			}

			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestChecks_CleanTable(t *testing.T) {
	clean := table().Select(func(r pokedex.Row) bool { return r.ID == 1 })

	res := New(DefaultChecks()...).Run(context.Background(), clean)
	assert.Empty(t, res.Findings)
	assert.True(t, res.Passed(SeverityInfo))
}

// ---------------------------------------------------------------------------
// Auditor
// ---------------------------------------------------------------------------

func TestAuditor_SortsAndSummarizes(t *testing.T) {
	res := New(DefaultChecks()...).Run(context.Background(), table())

	require.Len(t, res.Findings, 5)
	assert.Equal(t, "DQ-001", res.Findings[0].RuleID)
	assert.Equal(t, SeverityInfo, res.Findings[4].Severity)

	assert.Equal(t, map[string]int{"high": 1, "medium": 2, "low": 1, "info": 1}, res.Summary)
	assert.False(t, res.Passed(SeverityHigh))
}

func TestAuditor_Passed(t *testing.T) {
	res := New(&DuplicateNameCheck{}, &MissingCountryCheck{}).Run(context.Background(), table())

	assert.True(t, res.Passed(SeverityMedium))
	assert.False(t, res.Passed(SeverityLow))
}

func TestAuditor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(DefaultChecks()...).Run(ctx, table())
	assert.Empty(t, res.Findings)
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, New(DefaultChecks()...).Run(context.Background(), table())))

	out := buf.String()
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "#2 Glitch")
	assert.Contains(t, out, "Findings: 5 total (1 high, 2 medium, 1 low, 1 info)")
}
