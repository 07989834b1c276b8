package mirror

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

func spectra() (*core.Spectrum, *core.Spectrum) {
	top := &core.Spectrum{
		Identifier:  "42",
		PrecursorMZ: 500.25,
		Charge:      1,
		Peaks:       []core.Peak{{MZ: 100.1, Intensity: 10}, {MZ: 200.2, Intensity: 20}},
	}
	bottom := &core.Spectrum{
		Identifier:  "CCMSLIB00000000042",
		PrecursorMZ: 500.25,
		Charge:      1,
		Peaks:       []core.Peak{{MZ: 100.1, Intensity: 5}, {MZ: 150.0, Intensity: 50}},
	}
	return top, bottom
}

func smallOptions(format string) Options {
	opts := DefaultOptions()
	opts.Width, opts.Height = 4*vg.Inch, 2*vg.Inch
	opts.DPI = 72
	opts.Format = format
	return opts
}

func TestRenderPNG(t *testing.T) {
	top, bottom := spectra()
	data, err := Render(top, bottom, smallOptions(FormatPNG))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 288, img.Bounds().Dx())
	assert.Equal(t, 144, img.Bounds().Dy())
}

func TestRenderTransparentPNG(t *testing.T) {
	top, bottom := spectra()
	opts := smallOptions(FormatPNG)
	opts.Transparent = true
	data, err := Render(top, bottom, opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a, "corner pixel should be transparent")
}

func TestRenderSVG(t *testing.T) {
	top, bottom := spectra()
	opts := smallOptions(FormatSVG)
	opts.Grid = true
	data, err := Render(top, bottom, opts)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRenderPDF(t *testing.T) {
	top, bottom := spectra()
	data, err := Render(top, bottom, smallOptions(FormatPDF))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderEmptySpectra(t *testing.T) {
	top := &core.Spectrum{Identifier: "a", PrecursorMZ: 300, Charge: 1}
	bottom := &core.Spectrum{Identifier: "b", Charge: -1}
	_, err := Render(top, bottom, smallOptions(FormatSVG))
	assert.NoError(t, err)
}

func TestRenderUnsupportedFormat(t *testing.T) {
	top, bottom := spectra()
	_, err := Render(top, bottom, smallOptions("bmp"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(top, nil, smallOptions(FormatPNG))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestMZRange(t *testing.T) {
	top, bottom := spectra()
	min, max := mzRange(top, bottom)
	assert.InDelta(t, 100.1-5.005, min, 1e-9)
	assert.InDelta(t, 200.2+5.005, max, 1e-9)

	min, max = mzRange(&core.Spectrum{PrecursorMZ: 200})
	assert.Equal(t, 0.0, min)
	assert.InDelta(t, 210.0, max, 1e-9)
}

func TestStems(t *testing.T) {
	top, _ := spectra()
	s := newStems(top, -1, TopColor)
	xmin, xmax, ymin, ymax := s.DataRange()
	assert.Equal(t, 100.1, xmin)
	assert.Equal(t, 200.2, xmax)
	assert.Equal(t, -100.0, ymin)
	assert.Equal(t, 0.0, ymax)
}

func TestMirrorTicks(t *testing.T) {
	for _, tick := range (mirrorTicks{}).Ticks(-110, 110) {
		assert.NotContains(t, tick.Label, "-")
	}
}
