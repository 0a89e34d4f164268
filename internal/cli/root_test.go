package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

// testCSV uses the Spanish column names of the enriched source file.
const testCSV = `ID,Nombre,Tipo,Ataque,Defensa,Velocidad,Total,País
1,Bulbasaur,grass/poison,49,49,45,318,Japan
4,Charmander,fire,52,43,65,309,Japan
6,Charizard,fire/flying,84,78,100,534,France
7,Squirtle,water,48,65,43,314,
`

// executeCommand is a test helper that runs the CLI with the given args and
// captures both stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

// writeDataset writes testCSV to a temp dir and returns its path.
func writeDataset(t *testing.T) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "pokedex.csv")
	require.NoError(t, os.WriteFile(p, []byte(testCSV), 0o600))

	return p
}

// withData prefixes args with --data-file and a quiet log level.
func withData(path string, args ...string) []string {
	return append([]string{"--data-file", path, "--quiet"}, args...)
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Help output
// ---------------------------------------------------------------------------

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"render", "serve", "inspect", "watch", "version", "completion"} {
		assert.Contains(t, stdout, sub, "help should mention %q subcommand", sub)
	}

	for _, flag := range []string{
		"--config", "--log-level", "--log-format", "--no-color", "--quiet",
		"--data-file", "--sprite-base-url",
	} {
		assert.Contains(t, stdout, flag, "help should mention %q flag", flag)
	}
}

// ---------------------------------------------------------------------------
// Unknown flags → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("--nonexistent")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
}

// ---------------------------------------------------------------------------
// SilenceErrors – cobra must not print errors itself
// ---------------------------------------------------------------------------

func TestRootCommand_SilenceErrors(t *testing.T) {
	_, stderr, err := executeCommand("--nonexistent")
	require.Error(t, err)
	assert.Empty(t, stderr, "cobra should not print errors to stderr (SilenceErrors)")
}

// ---------------------------------------------------------------------------
// Config errors → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--config", "/nonexistent/path.yaml", "inspect")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand("--log-level", "trace", "inspect")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, _, err := executeCommand("--log-format", "xml", "inspect")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRootCommand_ConfigFileDataFile(t *testing.T) {
	data := writeDataset(t)
	cfgPath := filepath.Join(t.TempDir(), "pokedash.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("data-file: %s\nquiet: true\n", data)), 0o600))

	stdout, _, err := executeCommand("--config", cfgPath, "inspect")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Rows: 4")
}

// ---------------------------------------------------------------------------
// Data errors → exit code 3
// ---------------------------------------------------------------------------

func TestRootCommand_MissingDataFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	_, _, err := executeCommand(withData(missing, "render")...)
	require.Error(t, err)
	requireExitCode(t, err, ExitDataUnavailable)
	assert.ErrorIs(t, err, pokedex.ErrDataUnavailable)
}

// ---------------------------------------------------------------------------
// ExitError
// ---------------------------------------------------------------------------

func TestExitError_ErrorWithMessage(t *testing.T) {
	err := &ExitError{Code: 1, Err: assert.AnError}
	assert.Contains(t, err.Error(), assert.AnError.Error())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExitError_ErrorWithoutMessage(t *testing.T) {
	err := &ExitError{Code: 42}
	assert.Equal(t, "exit code 42", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestExitErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", fmt.Errorf("bad: %w", pokedex.ErrInvalidArgument), ExitUsage},
		{"data unavailable", fmt.Errorf("gone: %w", pokedex.ErrDataUnavailable), ExitDataUnavailable},
		{"other", assert.AnError, ExitFailure},
		{"already coded", &ExitError{Code: 7, Err: assert.AnError}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireExitCode(t, exitError(tt.err), tt.want)
		})
	}

	assert.NoError(t, exitError(nil))
}
