// Package msp provides a streaming reader for small-molecule MSP spectral
// libraries (NIST, MoNA and GNPS exports).
package msp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

// Reader provides streaming access to MSP format files
type Reader struct {
	scanner     *bufio.Scanner
	lineNum     int
	currentSpec *core.Spectrum
	err         error
}

// NewReader creates a new MSP reader
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
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

// entry collects header values until the spectrum can be assembled.
type entry struct {
	name      string
	dbID      string
	charge    int
	hasCharge bool
	polarity  core.Polarity
	spec      *core.Spectrum
}

func (e *entry) started() bool {
	return e.name != "" || e.dbID != "" || e.spec.PrecursorMZ != 0
}

// finish resolves identifier and signed charge.
func (e *entry) finish() *core.Spectrum {
	e.spec.Identifier = e.name
	if e.dbID != "" {
		e.spec.Identifier = e.dbID
	}

	polarity := e.polarity
	if polarity == core.PolarityUnknown {
		polarity = core.PolarityPositive
		if e.hasCharge && e.charge < 0 {
			polarity = core.PolarityNegative
		}
	}
	magnitude := 1
	if e.hasCharge && e.charge != 0 {
		magnitude = e.charge
	}
	e.spec.Charge = core.SignedCharge(magnitude, polarity)
	e.spec.Polarity = polarity
	return e.spec
}

// readSpectrum reads a single spectrum entry from the MSP file
func (r *Reader) readSpectrum() (*core.Spectrum, error) {
	e := &entry{spec: &core.Spectrum{Peaks: []core.Peak{}}}

	var numPeaks int
	inPeaks := false
	peaksRead := 0

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" {
			if !e.started() {
				continue
			}
			// Blank line terminates a started entry even if Num Peaks is
			// missing or overstated
			return e.finish(), nil
		}

		if !inPeaks {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				return nil, fmt.Errorf("line %d: expected 'Key: value', got '%s'", r.lineNum, line)
			}
			if err := r.parseHeader(e, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			if strings.EqualFold(strings.TrimSpace(key), "Num Peaks") {
				n, err := strconv.Atoi(strings.TrimSpace(value))
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid num peaks: %w", r.lineNum, err)
				}
				numPeaks = n
				inPeaks = true
				if numPeaks == 0 {
					return e.finish(), nil
				}
			}
			continue
		}

		// Peak lines may hold several "mz intensity" pairs separated by ';'
		for _, chunk := range strings.Split(line, ";") {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			peak, err := parsePeak(chunk)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			e.spec.Peaks = append(e.spec.Peaks, peak)
			peaksRead++
		}

		if peaksRead >= numPeaks {
			return e.finish(), nil
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// If we have a partially read spectrum, return it
	if e.started() {
		return e.finish(), nil
	}

	return nil, io.EOF
}

// parseHeader extracts the fields used for plotting; unknown keys are ignored.
func (r *Reader) parseHeader(e *entry, key, value string) error {
	switch strings.ToLower(key) {
	case "name":
		e.name = value
	case "db#", "id", "spectrumid":
		e.dbID = value
	case "precursormz", "precursor_mz", "pepmass":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return fmt.Errorf("empty precursor m/z")
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("invalid precursor m/z '%s': %w", value, err)
		}
		e.spec.PrecursorMZ = mz
	case "charge":
		charge, err := core.ParseCharge(value)
		if err != nil {
			return err
		}
		e.charge = charge
		e.hasCharge = true
	case "ion_mode", "ionmode":
		e.polarity = core.ParsePolarity(value)
	case "precursor_type", "precursortype":
		// "[M+H]+", "[M-H]-"
		if e.polarity == core.PolarityUnknown {
			switch {
			case strings.HasSuffix(value, "+"):
				e.polarity = core.PolarityPositive
			case strings.HasSuffix(value, "-"):
				e.polarity = core.PolarityNegative
			}
		}
	}
	return nil
}

// parsePeak parses a single peak (format: "mz intensity [\"annotation\"]")
func parsePeak(s string) (core.Peak, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return core.Peak{}, fmt.Errorf("invalid peak format, expected at least 2 fields")
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

// ReadFirst returns the first spectrum in r.
func ReadFirst(r io.Reader) (*core.Spectrum, error) {
	reader := NewReader(r)
	if reader.Next() {
		return reader.Spectrum(), nil
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no spectra in msp input")
}
