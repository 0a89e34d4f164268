package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Table(t *testing.T) {
	data := writeDataset(t)

	stdout, _, err := executeCommand(withData(data, "inspect")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Dataset: "+data)
	assert.Contains(t, stdout, "Rows: 4")
	assert.Contains(t, stdout, "Total: 309..534")
	assert.Contains(t, stdout, "--- Generation (1) ---")
	assert.Contains(t, stdout, "--- Type (4) ---")
	assert.Contains(t, stdout, "--- Country (2) ---")
	assert.Contains(t, stdout, "(none)", "missing country is reported")
}

func TestInspect_JSON(t *testing.T) {
	stdout, _, err := executeCommand(withData(writeDataset(t), "inspect", "--by", "country", "--format", "json")...)
	require.NoError(t, err)

	var result inspectResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	assert.Equal(t, 4, result.Rows)
	require.Len(t, result.Groups, 1)

	countries := result.Groups[0]
	assert.Equal(t, "Country", countries.Dimension)
	assert.Equal(t, 1, countries.Missing)
	require.Len(t, countries.Values, 2)
	assert.Equal(t, groupInfo{Name: "Japan", Count: 2, MeanTotal: 313.5}, countries.Values[0])
	assert.Equal(t, "France", countries.Values[1].Name)
}

func TestInspect_YAML(t *testing.T) {
	stdout, _, err := executeCommand(withData(writeDataset(t), "inspect", "--by", "generation", "--format", "yaml")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "rows: 4")
	assert.Contains(t, stdout, "dimension: Generation")
	assert.Contains(t, stdout, "name: I")
}

func TestInspect_UnknownFormat(t *testing.T) {
	_, _, err := executeCommand(withData(writeDataset(t), "inspect", "--format", "xml")...)
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
}

func TestInspect_UnknownDimension(t *testing.T) {
	_, _, err := executeCommand(withData(writeDataset(t), "inspect", "--by", "color")...)
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "unknown dimension")
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

func TestInspect_AuditPasses(t *testing.T) {
	stdout, _, err := executeCommand(withData(writeDataset(t), "inspect", "--by", "type", "--audit")...)
	require.NoError(t, err, "only an info finding for the missing country")

	assert.Contains(t, stdout, "--- Audit ---")
	assert.Contains(t, stdout, "DQ-005")
	assert.Contains(t, stdout, "Findings: 1 total (1 info)")
}

func TestInspect_AuditFailOn(t *testing.T) {
	_, _, err := executeCommand(withData(writeDataset(t), "inspect", "--audit", "--fail-on", "info")...)
	require.Error(t, err)
	requireExitCode(t, err, ExitFailure)
	assert.Contains(t, err.Error(), "audit failed")
}

func TestInspect_AuditJSON(t *testing.T) {
	stdout, _, err := executeCommand(withData(writeDataset(t), "inspect", "--audit", "--format", "json")...)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	a, ok := got["audit"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, a["findings"], 1)
}

func TestInspect_InvalidFailOn(t *testing.T) {
	_, _, err := executeCommand(withData(writeDataset(t), "inspect", "--fail-on", "critical")...)
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
}
