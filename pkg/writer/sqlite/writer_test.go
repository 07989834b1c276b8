package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

func TestEncodeDecodeFloat64(t *testing.T) {
	values := []float64{100.1, 200.2, 0, 1e6}
	decoded, err := DecodeFloat64(EncodeFloat64(values))
	if err != nil {
		t.Fatalf("DecodeFloat64() error = %v", err)
	}
	if len(decoded) != len(values) {
		t.Fatalf("expected %d values, got %d", len(values), len(decoded))
	}
	for i := range values {
		if decoded[i] != values[i] {
			t.Errorf("value %d: expected %v, got %v", i, values[i], decoded[i])
		}
	}

	if _, err := DecodeFloat64([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}

func TestWriterTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	w, err := NewWriter(path, "unit test")
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	spec := &core.Spectrum{
		Identifier:  "CCMSLIB00000000001",
		PrecursorMZ: 205.1234,
		Charge:      -1,
		Peaks:       []core.Peak{{MZ: 200, Intensity: 1}, {MZ: 100, Intensity: 2}},
	}
	if err := w.WriteSpectrum(spec); err != nil {
		t.Fatalf("WriteSpectrum() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if err := w.WriteSpectrum(spec); err == nil {
		t.Error("expected error writing after Finalize")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() after Finalize error = %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var name, tag, polarity string
	var mzBlob []byte
	err = db.QueryRow(`SELECT c.Name, c.Tag, s.Polarity, s.blobMass FROM CompoundTable c
		JOIN SpectrumTable s ON s.CompoundId = c.CompoundId`).Scan(&name, &tag, &polarity, &mzBlob)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if name != "CCMSLIB00000000001" || tag != "charge=1" || polarity != "-" {
		t.Errorf("unexpected row name=%s tag=%s polarity=%s", name, tag, polarity)
	}
	mz, _ := DecodeFloat64(mzBlob)
	if len(mz) != 2 || mz[0] != 100 {
		t.Errorf("expected sorted m/z blob, got %v", mz)
	}

	var headers int
	if err := db.QueryRow(`SELECT COUNT(*) FROM HeaderTable`).Scan(&headers); err != nil {
		t.Fatalf("query header: %v", err)
	}
	if headers != 1 {
		t.Errorf("expected 1 header row, got %d", headers)
	}
}

func TestWriterCloseDiscards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	w, err := NewWriter(path, "")
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	spec := &core.Spectrum{Identifier: "x", PrecursorMZ: 100, Charge: 1, Peaks: []core.Peak{{MZ: 50, Intensity: 1}}}
	if err := w.WriteSpectrum(spec); err != nil {
		t.Fatalf("WriteSpectrum() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM CompoundTable`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rolled back compounds, got %d", n)
	}
}

func TestWriterReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	spec := &core.Spectrum{Identifier: "x", PrecursorMZ: 100, Charge: 1, Peaks: []core.Peak{{MZ: 50, Intensity: 1}}}

	for run := 0; run < 2; run++ {
		w, err := NewWriter(path, "")
		if err != nil {
			t.Fatalf("run %d: NewWriter() error = %v", run, err)
		}
		if err := w.WriteSpectrum(spec); err != nil {
			t.Fatalf("run %d: WriteSpectrum() error = %v", run, err)
		}
		if err := w.Finalize(); err != nil {
			t.Fatalf("run %d: Finalize() error = %v", run, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var compounds, headers int
	if err := db.QueryRow(`SELECT COUNT(*) FROM CompoundTable`).Scan(&compounds); err != nil {
		t.Fatalf("query: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM HeaderTable`).Scan(&headers); err != nil {
		t.Fatalf("query header: %v", err)
	}
	if compounds != 1 || headers != 1 {
		t.Errorf("expected 1 compound and 1 header row, got %d and %d", compounds, headers)
	}
}
