package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/writer/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const database = `{
  "CCMSLIB00000000042": {"pepmass": "500.25", "charge": "1", "ion_mode": "positive", "ms2": "[[100.1,10],[200.2,20]]"},
  "CCMSLIB00000000043": {"pepmass": 301.5, "charge": 2, "ion_mode": "negative", "ms2": [[50.5, 1], [60.5, 3]]},
  "CCMSLIB00000000044": {"pepmass": "bad", "charge": "1", "ion_mode": "positive", "ms2": "[]"}
}`

func TestJSONLookup(t *testing.T) {
	lib, err := ParseJSON([]byte(database))
	require.NoError(t, err)
	assert.Equal(t, 3, lib.Len())

	spec, err := lib.Lookup("CCMSLIB00000000042")
	require.NoError(t, err)
	assert.Equal(t, "CCMSLIB00000000042", spec.Identifier)
	assert.Equal(t, 500.25, spec.PrecursorMZ)
	assert.Equal(t, 1, spec.Charge)
	assert.Equal(t, []float64{100.1, 200.2}, spec.MZ())
	assert.Equal(t, []float64{10, 20}, spec.Intensity())
}

func TestJSONLookup_NegativeModeAndNumbers(t *testing.T) {
	lib, err := ParseJSON([]byte(database))
	require.NoError(t, err)

	spec, err := lib.Lookup("CCMSLIB00000000043")
	require.NoError(t, err)
	assert.Equal(t, -2, spec.Charge)
	assert.Equal(t, core.PolarityNegative, spec.Polarity)
	assert.Equal(t, []float64{50.5, 60.5}, spec.MZ())
}

func TestJSONLookup_Errors(t *testing.T) {
	lib, err := ParseJSON([]byte(database))
	require.NoError(t, err)

	_, err = lib.Lookup("CCMSLIB_MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "CCMSLIB_MISSING")

	_, err = lib.Lookup("CCMSLIB00000000044")
	assert.Error(t, err)

	_, err = ParseJSON([]byte("[1, 2]"))
	assert.Error(t, err)
}

func TestOpen_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edb_info.json")
	require.NoError(t, os.WriteFile(path, []byte(database), 0644))

	lib, err := Open(context.Background(), nil, path)
	require.NoError(t, err)
	defer lib.Close()

	spec, err := lib.Lookup("CCMSLIB00000000042")
	require.NoError(t, err)
	assert.Equal(t, 500.25, spec.PrecursorMZ)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	jsonLib, err := ParseJSON([]byte(database))
	require.NoError(t, err)

	w, err := sqlite.NewWriter(path, "test library")
	require.NoError(t, err)
	for _, id := range []string{"CCMSLIB00000000042", "CCMSLIB00000000043"} {
		spec, err := jsonLib.Lookup(id)
		require.NoError(t, err)
		require.NoError(t, w.WriteSpectrum(spec))
	}
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Finalize())

	lib, err := Open(context.Background(), nil, path)
	require.NoError(t, err)
	defer lib.Close()

	spec, err := lib.Lookup("CCMSLIB00000000042")
	require.NoError(t, err)
	assert.Equal(t, 500.25, spec.PrecursorMZ)
	assert.Equal(t, 1, spec.Charge)
	assert.Equal(t, []float64{100.1, 200.2}, spec.MZ())
	assert.Equal(t, []float64{10, 20}, spec.Intensity())

	spec, err = lib.Lookup("CCMSLIB00000000043")
	require.NoError(t, err)
	assert.Equal(t, -2, spec.Charge)

	_, err = lib.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, IsSQLite("lib.db"))
	assert.True(t, IsSQLite("lib.SQLITE"))
	assert.False(t, IsSQLite("edb_info.json"))
}

func TestChargeFromTag(t *testing.T) {
	assert.Equal(t, 2, chargeFromTag("charge=2"))
	assert.Equal(t, 3, chargeFromTag("mods: charge=3"))
	assert.Equal(t, 1, chargeFromTag(""))
}
