// Package core provides the in-memory spectrum model shared by the MGF, MSP and
// library loaders and consumed by the mirror plot renderer.
package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Spectrum represents a single MS/MS spectrum ready for plotting.
type Spectrum struct {
	Identifier  string  // Feature id, library id or MGF title
	PrecursorMZ float64 // Precursor m/z
	Charge      int     // Signed precursor charge
	Peaks       []Peak  // Fragment peaks

	// Optional metadata
	Polarity   Polarity
	SourceFile string
}

// Peak is a single m/z, intensity pair.
type Peak struct {
	MZ        float64
	Intensity float64
}

// ValidationError represents an error found during spectrum validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// NewSpectrum builds a spectrum from parallel m/z and intensity arrays.
func NewSpectrum(id string, precursorMZ float64, charge int, mz, intensity []float64) (*Spectrum, error) {
	if len(mz) != len(intensity) {
		return nil, &ValidationError{
			Field:   "Peaks",
			Message: fmt.Sprintf("m/z and intensity arrays differ in length (%d != %d)", len(mz), len(intensity)),
		}
	}

	peaks := make([]Peak, len(mz))
	for i := range mz {
		peaks[i] = Peak{MZ: mz[i], Intensity: intensity[i]}
	}

	return &Spectrum{
		Identifier:  id,
		PrecursorMZ: precursorMZ,
		Charge:      charge,
		Peaks:       peaks,
		Polarity:    PolarityFromCharge(charge),
	}, nil
}

// MZ returns the fragment m/z values in peak order.
func (s *Spectrum) MZ() []float64 {
	out := make([]float64, len(s.Peaks))
	for i, p := range s.Peaks {
		out[i] = p.MZ
	}
	return out
}

// Intensity returns the fragment intensities in peak order.
func (s *Spectrum) Intensity() []float64 {
	out := make([]float64, len(s.Peaks))
	for i, p := range s.Peaks {
		out[i] = p.Intensity
	}
	return out
}

// BasePeak returns the highest intensity in the spectrum, or 0 when empty.
func (s *Spectrum) BasePeak() float64 {
	max := 0.0
	for _, p := range s.Peaks {
		if p.Intensity > max {
			max = p.Intensity
		}
	}
	return max
}

// Validate checks that a spectrum carries usable values.
// Peak ordering is not checked; use ArePeaksSorted for that.
func (s *Spectrum) Validate() error {
	var errs []string

	if s.Identifier == "" {
		errs = append(errs, "identifier is required")
	}
	if s.PrecursorMZ <= 0 || math.IsNaN(s.PrecursorMZ) || math.IsInf(s.PrecursorMZ, 0) {
		errs = append(errs, "precursor m/z must be positive")
	}
	if s.Charge == 0 {
		errs = append(errs, "charge must be non-zero")
	}
	if len(s.Peaks) == 0 {
		errs = append(errs, "at least one peak is required")
	}

	for i, peak := range s.Peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid m/z", i))
		}
		if math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		}
		if peak.MZ <= 0 {
			errs = append(errs, fmt.Sprintf("peak %d m/z must be positive", i))
		}
		if peak.Intensity < 0 {
			errs = append(errs, fmt.Sprintf("peak %d intensity must be non-negative", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Spectrum",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// ArePeaksSorted checks if peaks are sorted by m/z in ascending order.
func (s *Spectrum) ArePeaksSorted() bool {
	for i := 1; i < len(s.Peaks); i++ {
		if s.Peaks[i].MZ < s.Peaks[i-1].MZ {
			return false
		}
	}
	return true
}

// SortPeaks sorts peaks by m/z in ascending order.
func (s *Spectrum) SortPeaks() {
	sort.SliceStable(s.Peaks, func(i, j int) bool {
		return s.Peaks[i].MZ < s.Peaks[j].MZ
	})
}

// Name returns the spectrum label in format "Identifier (m/z 500.2500, 1+)"
func (s *Spectrum) Name() string {
	return fmt.Sprintf("%s (m/z %.4f, %s)", s.Identifier, s.PrecursorMZ, FormatCharge(s.Charge))
}
