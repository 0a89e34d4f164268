package dataset

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hupe1980/pokedash/internal/pokedex"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sourceCSV = `ID,Nombre,Tipo,Ataque,Defensa,Velocidad,Total,País
1,Bulbasaur,grass/poison,49,49,45,318,Japan
4,Charmander,fire,52,43,65,309,
6,Charizard,fire/flying,84,78,100,534,Japan
25,Pikachu,electric,55,40,90,320,NaN
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "pokedex.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestLoad_RenamesAndDerives(t *testing.T) {
	tbl, err := Load(writeCSV(t, sourceCSV))
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	want := pokedex.Row{
		ID:         1,
		Name:       "Bulbasaur",
		Type:       "grass/poison",
		Attack:     49,
		Defense:    49,
		Speed:      45,
		Total:      318,
		Country:    "Japan",
		Generation: "I",
		Sprite:     DefaultSpriteBaseURL + "1.png",
	}

	if diff := cmp.Diff(want, tbl.Row(0)); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "", tbl.Row(1).Country, "empty cell is null")
	assert.Equal(t, "", tbl.Row(3).Country, "NaN is null")
}

func TestRead_SpriteForIdentifier25(t *testing.T) {
	tbl, err := Read(strings.NewReader(sourceCSV))
	require.NoError(t, err)
	assert.Equal(t, DefaultSpriteBaseURL+"25.png", tbl.Row(3).Sprite)
}

func TestRead_CustomSpriteBase(t *testing.T) {
	tbl, err := Read(strings.NewReader(sourceCSV), WithSpriteBaseURL("http://cdn.test/"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/4.png", tbl.Row(1).Sprite)
}

func TestRead_CanonicalHeadersAccepted(t *testing.T) {
	csv := "ID, Name ,Type,Attack,Defense,Speed,Total,Country\n7,Squirtle,water,48,65,43,314,Japan\n"

	tbl, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "Squirtle", tbl.Row(0).Name)
}

func TestRead_ExistingGenerationColumnKept(t *testing.T) {
	csv := "ID,Name,Type,Attack,Defense,Speed,Total,Country,Generación\n" +
		"1,Bulbasaur,grass,49,49,45,318,Japan,IV\n" +
		"2,Ivysaur,grass,62,63,60,405,Japan,\n"

	tbl, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "IV", tbl.Row(0).Generation)
	assert.Equal(t, "", tbl.Row(1).Generation)
}

func TestRead_GenerationDerivedFromPosition(t *testing.T) {
	var b strings.Builder
	b.WriteString("ID,Name,Type,Attack,Defense,Speed,Total,Country\n")

	for i := 0; i < 160; i++ {
		b.WriteString(strings.Join([]string{strconv.Itoa(i + 1), "m", "normal", "1", "1", "1", "3", "X"}, ","))
		b.WriteString("\n")
	}

	tbl, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, "I", tbl.Row(0).Generation)
	assert.Equal(t, "I", tbl.Row(151).Generation)
	assert.Equal(t, "II", tbl.Row(152).Generation)
}

func TestRead_IntegralFloatsAccepted(t *testing.T) {
	csv := "ID,Name,Type,Attack,Defense,Speed,Total,Country\n1,a,fire,45.0,1,1,47,X\n"

	tbl, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 45, tbl.Row(0).Attack)
}

// ---------------------------------------------------------------------------
// DataUnavailable
// ---------------------------------------------------------------------------

func TestRead_HeaderOnly(t *testing.T) {
	for name, csv := range map[string]string{
		"canonical":      "ID,Name,Type,Attack,Defense,Speed,Total,Country\n",
		"source names":   "\ufeffID,Nombre,Tipo,Ataque,Defensa,Velocidad,Total,País\n",
		"no newline":     "ID,Name,Type,Attack,Defense,Speed,Total,Country",
		"trailing blank": "ID,Name,Type,Attack,Defense,Speed,Total,Country\n\n",
	} {
		t.Run(name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(csv))
			require.NoError(t, err)
			assert.Zero(t, tbl.Len())
		})
	}
}

func TestRead_HeaderOnlyMissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("ID,Name,Type,Attack,Defense,Speed,Total\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pokedex.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "Country")
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, pokedex.ErrDataUnavailable)
}

func TestCanonicalNames(t *testing.T) {
	got := canonicalNames([]string{"\ufeffID", " Nombre ", "Name", "Tipo", "Extra"})
	assert.Equal(t, []string{"ID", " Nombre ", "Name", "Type", "Extra"}, got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pokedex.ErrDataUnavailable)
}

func TestRead_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{
			name:    "missing required column",
			csv:     "ID,Name,Type,Attack,Defense,Speed,Country\n1,a,fire,1,1,1,X\n",
			wantMsg: "Total",
		},
		{
			name:    "non-integer stat",
			csv:     "ID,Name,Type,Attack,Defense,Speed,Total,Country\n1,a,fire,strong,1,1,3,X\n",
			wantMsg: "Attack",
		},
		{
			name:    "negative stat",
			csv:     "ID,Name,Type,Attack,Defense,Speed,Total,Country\n1,a,fire,1,-1,1,3,X\n",
			wantMsg: "negative",
		},
		{
			name:    "duplicate identifier",
			csv:     "ID,Name,Type,Attack,Defense,Speed,Total,Country\n1,a,fire,1,1,1,3,X\n1,b,fire,1,1,1,3,X\n",
			wantMsg: "duplicate",
		},
		{
			name:    "ragged rows",
			csv:     "ID,Name,Type,Attack,Defense,Speed,Total,Country\n1,a,fire\n",
			wantMsg: "parsing CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.ErrorIs(t, err, pokedex.ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
