package mgf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

// DefaultCharge is used when a record has no CHARGE header.
const DefaultCharge = 1

const maxLineSize = 16 * 1024 * 1024

// Reader provides streaming access to normalized MGF spectra. The identifier
// of each spectrum is read from its TITLE header.
type Reader struct {
	scanner     *bufio.Scanner
	lineNum     int
	currentSpec *core.Spectrum
	err         error
}

// NewReader creates a new MGF reader
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next advances to the next spectrum. Returns false when no more spectra or error.
func (r *Reader) Next() bool {
	r.currentSpec = nil

	spec, err := r.readSpectrum()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.currentSpec = spec
	return true
}

// Spectrum returns the current spectrum
func (r *Reader) Spectrum() *core.Spectrum {
	return r.currentSpec
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readSpectrum() (*core.Spectrum, error) {
	var (
		spec      *core.Spectrum
		hasCharge bool
		openLine  int
	)

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if spec == nil {
			if strings.HasPrefix(line, BeginMarker) {
				spec = &core.Spectrum{Peaks: []core.Peak{}}
				openLine = r.lineNum
			}
			continue
		}

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, BeginMarker):
			return nil, &ParseError{Line: openLine, Err: ErrUnterminatedRecord}
		case strings.HasPrefix(line, EndMarker):
			if !hasCharge {
				spec.Charge = DefaultCharge
			}
			spec.Polarity = core.PolarityFromCharge(spec.Charge)
			return spec, nil
		case strings.Contains(line, "="):
			if err := r.parseHeader(spec, line, &hasCharge); err != nil {
				return nil, &ParseError{Line: r.lineNum, Err: err}
			}
		default:
			peak, err := parsePeak(line)
			if err != nil {
				return nil, &ParseError{Line: r.lineNum, Err: err}
			}
			spec.Peaks = append(spec.Peaks, peak)
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if spec != nil {
		return nil, &ParseError{Line: openLine, Err: ErrUnterminatedRecord}
	}

	return nil, io.EOF
}

// parseHeader handles the KEY=value lines this reader cares about; others are ignored.
func (r *Reader) parseHeader(spec *core.Spectrum, line string, hasCharge *bool) error {
	key, value, _ := strings.Cut(line, "=")
	key = strings.ToUpper(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case TitleKey:
		spec.Identifier = value
	case PepMassKey:
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return fmt.Errorf("empty %s", PepMassKey)
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", PepMassKey, value, err)
		}
		spec.PrecursorMZ = mz
	case ChargeKey:
		charge, err := core.ParseCharge(value)
		if err != nil {
			return err
		}
		spec.Charge = charge
		*hasCharge = true
	}
	return nil
}

// parsePeak parses a single peak line (format: "mz intensity [charge]")
func parsePeak(line string) (core.Peak, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return core.Peak{}, fmt.Errorf("invalid peak format '%s', expected at least 2 fields", line)
	}

	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid m/z value: %w", err)
	}

	intensity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid intensity value: %w", err)
	}

	return core.Peak{MZ: mz, Intensity: intensity}, nil
}

// FindSpectrum returns the first spectrum whose title equals id.
func FindSpectrum(r io.Reader, id string) (*core.Spectrum, error) {
	reader := NewReader(r)
	for reader.Next() {
		if spec := reader.Spectrum(); spec.Identifier == id {
			return spec, nil
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrSpectrumNotFound, id)
}

// ReadSingle returns the only spectrum in r. Files with no spectrum or with
// more than one fail with ErrNotSingleSpectrum.
func ReadSingle(r io.Reader) (*core.Spectrum, error) {
	reader := NewReader(r)
	var found *core.Spectrum
	count := 0
	for reader.Next() {
		count++
		if found == nil {
			found = reader.Spectrum()
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, fmt.Errorf("%w, found %d", ErrNotSingleSpectrum, count)
	}
	return found, nil
}

// ReadFirst returns the first spectrum in r.
func ReadFirst(r io.Reader) (*core.Spectrum, error) {
	reader := NewReader(r)
	if reader.Next() {
		return reader.Spectrum(), nil
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: no spectra in input", ErrSpectrumNotFound)
}

// ReadAll indexes every spectrum in r by title. The first spectrum wins when
// titles repeat, matching FindSpectrum.
func ReadAll(r io.Reader) (map[string]*core.Spectrum, error) {
	reader := NewReader(r)
	out := make(map[string]*core.Spectrum)
	for reader.Next() {
		spec := reader.Spectrum()
		if _, exists := out[spec.Identifier]; !exists {
			out[spec.Identifier] = spec
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
