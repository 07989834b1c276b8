package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

// Record is one entry of the JSON spectral database. The ms2 field holds a
// JSON-encoded string of [[mz, intensity], ...] pairs.
type Record struct {
	PepMass jsonText        `json:"pepmass"`
	Charge  jsonText        `json:"charge"`
	IonMode string          `json:"ion_mode"`
	MS2     json.RawMessage `json:"ms2"`
}

// jsonText accepts both JSON strings and bare numbers.
type jsonText string

func (t *jsonText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = jsonText(s)
		return nil
	}
	*t = jsonText(data)
	return nil
}

// JSONLibrary is an in-memory JSON spectral database.
type JSONLibrary struct {
	records map[string]Record
}

// ParseJSON decodes a database object keyed by library id.
func ParseJSON(data []byte) (*JSONLibrary, error) {
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode spectral database: %w", err)
	}
	return &JSONLibrary{records: records}, nil
}

// Len returns the number of entries.
func (l *JSONLibrary) Len() int {
	return len(l.records)
}

// IDs returns all library ids in sorted order.
func (l *JSONLibrary) IDs() []string {
	ids := make([]string, 0, len(l.records))
	for id := range l.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup builds the spectrum for id.
func (l *JSONLibrary) Lookup(id string) (*core.Spectrum, error) {
	rec, ok := l.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	spec, err := rec.Spectrum(id)
	if err != nil {
		return nil, fmt.Errorf("library entry %s: %w", id, err)
	}
	return spec, nil
}

// Close is a no-op for the in-memory library.
func (l *JSONLibrary) Close() error {
	return nil
}

// Spectrum converts the record. The charge is the stored magnitude signed by
// ion_mode: "positive" gives a positive charge, anything else a negative one.
func (r Record) Spectrum(id string) (*core.Spectrum, error) {
	pepmass, err := strconv.ParseFloat(strings.TrimSpace(string(r.PepMass)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid pepmass '%s': %w", r.PepMass, err)
	}

	magnitude := 1
	if c := strings.TrimSpace(string(r.Charge)); c != "" {
		parsed, err := core.ParseCharge(c)
		if err != nil {
			return nil, err
		}
		magnitude = parsed
	}
	polarity := core.PolarityNegative
	if r.IonMode == string(core.PolarityPositive) {
		polarity = core.PolarityPositive
	}

	pairs, err := r.peaks()
	if err != nil {
		return nil, err
	}

	mz := make([]float64, len(pairs))
	intensity := make([]float64, len(pairs))
	for i, p := range pairs {
		if len(p) < 2 {
			return nil, fmt.Errorf("ms2 peak %d has %d values, expected 2", i, len(p))
		}
		mz[i] = p[0]
		intensity[i] = p[1]
	}

	spec, err := core.NewSpectrum(id, pepmass, core.SignedCharge(magnitude, polarity), mz, intensity)
	if err != nil {
		return nil, err
	}
	spec.Polarity = polarity
	return spec, nil
}

// peaks decodes ms2, which is normally a string holding JSON but may also be
// an inline array.
func (r Record) peaks() ([][]float64, error) {
	raw := bytes.TrimSpace(r.MS2)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("invalid ms2: %w", err)
		}
		raw = []byte(s)
	}
	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("invalid ms2 peak list: %w", err)
	}
	return pairs, nil
}
