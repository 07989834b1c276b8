package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	sqlitewriter "github.com/ChrisMcGann/msmirror/pkg/writer/sqlite"
	_ "github.com/mattn/go-sqlite3"
)

const lookupQuery = `
	SELECT c.Tag, s.PrecursorMass, s.Polarity, s.blobMass, s.blobIntensity, s.RawFileURL
	FROM CompoundTable c
	JOIN SpectrumTable s ON s.CompoundId = c.CompoundId
	WHERE c.Name = ?
	ORDER BY s.SpectrumId
	LIMIT 1
`

// SQLiteLibrary reads reference spectra from a SQLite library.
type SQLiteLibrary struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// OpenSQLite opens an existing library read-only.
func OpenSQLite(path string) (*SQLiteLibrary, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	stmt, err := db.Prepare(lookupQuery)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare library lookup for %s: %w", path, err)
	}
	return &SQLiteLibrary{db: db, stmt: stmt}, nil
}

// Lookup loads the spectrum stored under id.
func (l *SQLiteLibrary) Lookup(id string) (*core.Spectrum, error) {
	var (
		tag, polarity, rawFile sql.NullString
		precursor              float64
		mzBlob, intBlob        []byte
	)

	err := l.stmt.QueryRow(id).Scan(&tag, &precursor, &polarity, &mzBlob, &intBlob, &rawFile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query library entry %s: %w", id, err)
	}

	mz, err := sqlitewriter.DecodeFloat64(mzBlob)
	if err != nil {
		return nil, fmt.Errorf("library entry %s: m/z blob: %w", id, err)
	}
	intensity, err := sqlitewriter.DecodeFloat64(intBlob)
	if err != nil {
		return nil, fmt.Errorf("library entry %s: intensity blob: %w", id, err)
	}

	pol := core.PolarityPositive
	if polarity.String == "-" {
		pol = core.PolarityNegative
	}

	spec, err := core.NewSpectrum(id, precursor, core.SignedCharge(chargeFromTag(tag.String), pol), mz, intensity)
	if err != nil {
		return nil, fmt.Errorf("library entry %s: %w", id, err)
	}
	spec.Polarity = pol
	spec.SourceFile = rawFile.String
	return spec, nil
}

// chargeFromTag reads "charge=<n>" from a space separated tag, defaulting to 1.
func chargeFromTag(tag string) int {
	for _, field := range strings.Fields(tag) {
		if v, ok := strings.CutPrefix(field, sqlitewriter.TagChargePrefix); ok {
			if n, err := strconv.Atoi(v); err == nil && n != 0 {
				return n
			}
		}
	}
	return 1
}

// Close releases the database handle.
func (l *SQLiteLibrary) Close() error {
	l.stmt.Close()
	return l.db.Close()
}
