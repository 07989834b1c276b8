// Package loader turns MGF and MSP files into spectra ready for plotting. MGF
// input is normalized to TITLE-keyed text in memory and parsed from there.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/mgf"
	"github.com/ChrisMcGann/msmirror/pkg/reader/msp"
	"github.com/ChrisMcGann/msmirror/pkg/source"
)

// FormatMSP is accepted alongside the MGF formats for generic mirror plots.
const FormatMSP = "msp"

// LibraryCharge is inserted into library MGF records that carry no charge.
const LibraryCharge = "1+"

// Loader reads spectra through a Source.
type Loader struct {
	src *source.Source
}

// New creates a Loader. A nil src uses source.New().
func New(src *source.Source) *Loader {
	if src == nil {
		src = source.New()
	}
	return &Loader{src: src}
}

// FormatNames lists every format accepted by First.
func FormatNames() []string {
	return append(mgf.FormatNames(), FormatMSP)
}

func (l *Loader) normalized(ctx context.Context, path string, format mgf.Format) (string, error) {
	data, err := l.src.Read(ctx, path)
	if err != nil {
		return "", err
	}
	return mgf.Normalize(string(data), format), nil
}

// Feature loads the MZmine feature with featureID from path.
func (l *Loader) Feature(ctx context.Context, path, featureID string) (*core.Spectrum, error) {
	text, err := l.normalized(ctx, path, mgf.FormatMZmine)
	if err != nil {
		return nil, err
	}
	spec, err := mgf.FindSpectrum(strings.NewReader(text), featureID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	spec.SourceFile = path
	return spec, nil
}

// Features loads every MZmine feature in path keyed by feature id.
func (l *Loader) Features(ctx context.Context, path string) (map[string]*core.Spectrum, error) {
	text, err := l.normalized(ctx, path, mgf.FormatMZmine)
	if err != nil {
		return nil, err
	}
	specs, err := mgf.ReadAll(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, spec := range specs {
		spec.SourceFile = path
	}
	return specs, nil
}

// Reference loads a single-spectrum GNPS library MGF. A missing charge is
// filled in with LibraryCharge.
func (l *Loader) Reference(ctx context.Context, path string) (*core.Spectrum, error) {
	text, err := l.normalized(ctx, path, mgf.FormatCCMSLib)
	if err != nil {
		return nil, err
	}
	text = mgf.InsertCharge(text, LibraryCharge)
	spec, err := mgf.ReadSingle(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	spec.SourceFile = path
	return spec, nil
}

// First loads the first spectrum of path read as format (mzmine, ccmslib or msp).
func (l *Loader) First(ctx context.Context, path, format string) (*core.Spectrum, error) {
	var (
		spec *core.Spectrum
		err  error
	)

	if strings.EqualFold(strings.TrimSpace(format), FormatMSP) {
		data, readErr := l.src.Read(ctx, path)
		if readErr != nil {
			return nil, readErr
		}
		spec, err = msp.ReadFirst(bytes.NewReader(data))
	} else {
		f, parseErr := mgf.ParseFormat(format)
		if parseErr != nil {
			return nil, fmt.Errorf("%w (or %s)", parseErr, FormatMSP)
		}
		text, readErr := l.normalized(ctx, path, f)
		if readErr != nil {
			return nil, readErr
		}
		spec, err = mgf.ReadFirst(strings.NewReader(text))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	spec.SourceFile = path
	return spec, nil
}
