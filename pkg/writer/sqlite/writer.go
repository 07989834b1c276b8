// Package sqlite writes reference spectra to an mzVault style SQLite library
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Date format for MaintenanceTable (space-separated)
	maintenanceDateFormat = "2006 01 02"

	// TagChargePrefix prefixes the charge magnitude stored in CompoundTable.Tag
	TagChargePrefix = "charge="
)

// Schema creates the library tables. Readers rely on CompoundTable.Name
// holding the library id.
const Schema = `
	CREATE TABLE IF NOT EXISTS CompoundTable (
		CompoundId INTEGER PRIMARY KEY,
		Formula TEXT,
		Name TEXT,
		Synonyms BLOB_TEXT,
		Tag TEXT,
		Sequence TEXT,
		CASId TEXT,
		ChemSpiderId TEXT,
		HMDBId TEXT,
		KEGGId TEXT,
		PubChemId TEXT,
		Structure BLOB_TEXT,
		mzCloudId INTEGER,
		CompoundClass TEXT,
		SmilesDescription TEXT,
		InChiKey TEXT
	);

	CREATE INDEX IF NOT EXISTS CompoundNameIndex ON CompoundTable (Name);

	CREATE TABLE IF NOT EXISTS SpectrumTable (
		SpectrumId INTEGER PRIMARY KEY,
		CompoundId INTEGER REFERENCES CompoundTable(CompoundId),
		mzCloudURL TEXT,
		ScanFilter TEXT,
		RetentionTime DOUBLE,
		ScanNumber INTEGER,
		PrecursorMass DOUBLE,
		NeutralMass DOUBLE,
		CollisionEnergy DOUBLE,
		Polarity TEXT,
		FragmentationMode TEXT,
		IonizationMode TEXT,
		MassAnalyzer TEXT,
		InstrumentName TEXT,
		InstrumentOperator TEXT,
		RawFileURL TEXT,
		blobMass BLOB,
		blobIntensity BLOB,
		blobAccuracy BLOB,
		blobResolution BLOB,
		blobNoises BLOB,
		blobFlags BLOB,
		blobTopPeaks BLOB,
		Version INTEGER,
		CreationDate TEXT,
		Curator TEXT,
		CurationType TEXT,
		PrecursorIonType TEXT,
		Accession TEXT
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		LastModifiedDate TEXT,
		Description TEXT,
		Company TEXT,
		ReadOnly BOOL,
		UserAccess TEXT,
		PartialEdits BOOL
	);

	CREATE TABLE IF NOT EXISTS MaintenanceTable (
		CreationDate TEXT,
		NoofCompoundsModified INTEGER,
		Description TEXT
	);
	`

// Writer handles writing spectra to SQLite database files
type Writer struct {
	db           *sql.DB
	tx           *sql.Tx
	outputPath   string
	description  string
	compoundStmt *sql.Stmt
	spectrumStmt *sql.Stmt
	compoundID   int
	closed       bool
}

// NewWriter creates a new SQLite writer. All spectra are written in a single
// transaction committed by Finalize. An existing file at outputPath is replaced.
func NewWriter(outputPath, description string) (*Writer, error) {
	if err := os.Remove(outputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to replace existing database: %w", err)
	}

	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:          db,
		outputPath:  outputPath,
		description: description,
		compoundID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	if _, err := w.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.compoundStmt, err = w.tx.Prepare(`
		INSERT INTO CompoundTable (
			CompoundId, Formula, Name, Synonyms, Tag, Sequence,
			CASId, ChemSpiderId, HMDBId, KEGGId, PubChemId,
			Structure, mzCloudId, CompoundClass, SmilesDescription, InChiKey
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("failed to prepare compound statement: %w", err)
	}

	w.spectrumStmt, err = w.tx.Prepare(`
		INSERT INTO SpectrumTable (
			SpectrumId, CompoundId, mzCloudURL, ScanFilter, RetentionTime,
			ScanNumber, PrecursorMass, NeutralMass, CollisionEnergy, Polarity,
			FragmentationMode, IonizationMode, MassAnalyzer, InstrumentName,
			InstrumentOperator, RawFileURL, blobMass, blobIntensity,
			blobAccuracy, blobResolution, blobNoises, blobFlags,
			blobTopPeaks, Version, CreationDate, Curator, CurationType,
			PrecursorIonType, Accession
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("failed to prepare spectrum statement: %w", err)
	}

	return nil
}

// WriteSpectrum writes a single reference spectrum to the database
func (w *Writer) WriteSpectrum(spec *core.Spectrum) error {
	if w.closed {
		return fmt.Errorf("writer for %s is already finalized", w.outputPath)
	}

	// Ensure peaks are sorted
	if !spec.ArePeaksSorted() {
		spec.SortPeaks()
	}

	charge := spec.Charge
	if charge < 0 {
		charge = -charge
	}
	tag := fmt.Sprintf("%s%d", TagChargePrefix, charge)

	// Insert into CompoundTable
	_, err := w.compoundStmt.Exec(
		w.compoundID,    // CompoundId
		"",              // Formula
		spec.Identifier, // Name
		"",              // Synonyms
		tag,             // Tag
		"",              // Sequence
		"",              // CASId
		"",              // ChemSpiderId
		"",              // HMDBId
		"",              // KEGGId
		"",              // PubChemId
		"",              // Structure
		nil,             // mzCloudId
		"",              // CompoundClass
		"",              // SmilesDescription
		"",              // InChiKey
	)
	if err != nil {
		return fmt.Errorf("failed to insert compound: %w", err)
	}

	// Encode peaks as binary blobs (little-endian float64)
	mzBlob := EncodeFloat64(spec.MZ())
	intBlob := EncodeFloat64(spec.Intensity())

	// Calculate neutral mass
	neutralMass := core.NeutralMass(spec.PrecursorMZ, spec.Charge)

	// Insert into SpectrumTable
	_, err = w.spectrumStmt.Exec(
		w.compoundID,         // SpectrumId (same as CompoundId for 1:1 mapping)
		w.compoundID,         // CompoundId
		"",                   // mzCloudURL
		"",                   // ScanFilter
		nil,                  // RetentionTime
		0,                    // ScanNumber
		spec.PrecursorMZ,     // PrecursorMass
		neutralMass,          // NeutralMass
		nil,                  // CollisionEnergy
		polaritySymbol(spec), // Polarity
		"",                   // FragmentationMode
		"ESI",                // IonizationMode
		"",                   // MassAnalyzer
		"",                   // InstrumentName
		"",                   // InstrumentOperator
		spec.SourceFile,      // RawFileURL
		mzBlob,               // blobMass
		intBlob,              // blobIntensity
		nil,                  // blobAccuracy
		nil,                  // blobResolution
		nil,                  // blobNoises
		nil,                  // blobFlags
		nil,                  // blobTopPeaks
		nil,                  // Version
		nil,                  // CreationDate
		"",                   // Curator
		"",                   // CurationType
		"",                   // PrecursorIonType
		spec.Identifier,      // Accession
	)
	if err != nil {
		return fmt.Errorf("failed to insert spectrum: %w", err)
	}

	w.compoundID++
	return nil
}

// Count returns the number of spectra written so far.
func (w *Writer) Count() int {
	return w.compoundID - 1
}

func polaritySymbol(spec *core.Spectrum) string {
	if spec.Charge < 0 || spec.Polarity == core.PolarityNegative {
		return "-"
	}
	return "+"
}

// EncodeFloat64 encodes values as a little-endian float64 blob
func EncodeFloat64(values []float64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// DecodeFloat64 decodes a little-endian float64 blob
func DecodeFloat64(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 8", len(blob))
	}
	out := make([]float64, len(blob)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return out, nil
}

// Finalize writes the header and maintenance tables, commits and closes the database
func (w *Writer) Finalize() error {
	if w.closed {
		return nil
	}
	w.closed = true

	now := time.Now()

	// Write HeaderTable
	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, LastModifiedDate, Description, Company, ReadOnly, UserAccess, PartialEdits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, 5, now.Format(headerDateFormat), now.Format(headerDateFormat), w.description, "", false, "", false)
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Write MaintenanceTable
	_, err = w.tx.Exec(`
		INSERT INTO MaintenanceTable (CreationDate, NoofCompoundsModified, Description)
		VALUES (?, ?, ?)
	`, now.Format(maintenanceDateFormat), w.Count(), w.description)
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to insert maintenance: %w", err)
	}

	w.closeStatements()

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit database: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close discards uncommitted spectra if Finalize was not called.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.abort()
	return nil
}

func (w *Writer) abort() {
	w.closeStatements()
	w.tx.Rollback()
	w.db.Close()
}

func (w *Writer) closeStatements() {
	if w.compoundStmt != nil {
		w.compoundStmt.Close()
	}
	if w.spectrumStmt != nil {
		w.spectrumStmt.Close()
	}
}
