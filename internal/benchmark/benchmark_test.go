package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 3.6, tbl.ForTheme("Source-To-Pay Process"))
	assert.Equal(t, 3.4, tbl.ForTheme("People and Organization"))
	assert.Equal(t, 0.0, tbl.ForTheme("Unknown Theme"))

	areas := tbl.ForAreas("Source-To-Pay Process")
	assert.Len(t, areas, 4)
	assert.Equal(t, 3.7, areas["Strategic Sourcing"])
	assert.Len(t, tbl.ForAreas("Procurement Performance"), 5)
	assert.Empty(t, tbl.ForAreas("Unknown Theme"))

	assert.Equal(t, 5.0, tbl.ForArea("Procurement Performance", "Reporting"))
	assert.Equal(t, AreaFallback, tbl.ForArea("Procurement Performance", "Not An Area"))

	assert.InDelta(t, 3.8, tbl.AreaAverage("Procurement Performance"), 1e-9)
	assert.Equal(t, 0.0, tbl.AreaAverage("Unknown Theme"))
	assert.Len(t, tbl.Sources, 4)
}

func TestForAreasReturnsCopy(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	areas := tbl.ForAreas("Source-To-Pay Process")
	areas["Strategic Sourcing"] = 0
	assert.Equal(t, 3.7, tbl.ForArea("Source-To-Pay Process", "Strategic Sourcing"))
}

func TestParseRejectsOutOfRange(t *testing.T) {
	_, err := Parse([]byte("themes:\n  X: 5.5\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("areas:\n  X:\n    A: -1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("areas: [\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("themes:\n  Source-To-Pay Process: 4.2\n"), 0644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4.2, tbl.ForTheme("Source-To-Pay Process"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
