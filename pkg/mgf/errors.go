package mgf

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedRecord marks a BEGIN IONS block that is never closed.
	ErrUnterminatedRecord = errors.New("unterminated record")
	// ErrSpectrumNotFound is returned when no record carries the requested title.
	ErrSpectrumNotFound = errors.New("spectrum not found")
	// ErrNotSingleSpectrum is returned by ReadSingle for files holding zero or several spectra.
	ErrNotSingleSpectrum = errors.New("expected exactly one spectrum")
)

// ParseError reports malformed MGF input with the offending line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mgf line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
