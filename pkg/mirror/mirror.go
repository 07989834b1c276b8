// Package mirror renders two spectra back to back on a shared m/z axis: the
// first spectrum points up, the second is inverted below it. Intensities are
// scaled to each spectrum's base peak.
package mirror

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

// ErrUnsupportedFormat is returned for image formats the renderer cannot write.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Supported image formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Relative intensity of the base peak.
const fullScale = 100.0

var (
	TopColor    = color.RGBA{R: 0x21, G: 0x66, B: 0xac, A: 0xff}
	BottomColor = color.RGBA{R: 0xb2, G: 0x18, B: 0x2b, A: 0xff}
)

// Options controls figure size and output.
type Options struct {
	Width       vg.Length
	Height      vg.Length
	DPI         int
	Transparent bool
	Grid        bool
	Format      string
}

// DefaultOptions returns a 12x6 inch, 300 dpi PNG figure.
func DefaultOptions() Options {
	return Options{
		Width:  12 * vg.Inch,
		Height: 6 * vg.Inch,
		DPI:    300,
		Format: FormatPNG,
	}
}

// ParseFormat normalizes and checks an image format name.
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w '%s', must be png, svg or pdf", ErrUnsupportedFormat, format)
}

// New builds the mirror plot for top and bottom.
func New(top, bottom *core.Spectrum, opts Options) (*plot.Plot, error) {
	if top == nil || bottom == nil {
		return nil, errors.New("mirror plot needs two spectra")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", top.Identifier, bottom.Identifier)
	p.X.Label.Text = "m/z"
	p.Y.Label.Text = "Intensity (%)"
	p.Y.Tick.Marker = mirrorTicks{}
	if opts.Transparent {
		p.BackgroundColor = color.Transparent
	}
	if opts.Grid {
		p.Add(plotter.NewGrid())
	}

	upper := newStems(top, 1, TopColor)
	lower := newStems(bottom, -1, BottomColor)
	p.Add(upper, lower)

	xmin, xmax := mzRange(top, bottom)
	axis, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 0}, {X: xmax, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("failed to build axis line: %w", err)
	}
	axis.LineStyle.Width = vg.Points(0.75)
	axis.LineStyle.Color = color.Black
	p.Add(axis)

	p.Legend.Add(top.Name(), upper)
	p.Legend.Add(bottom.Name(), lower)
	p.Legend.Top = true

	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = -fullScale*1.1, fullScale*1.1

	return p, nil
}

// mzRange spans the peaks of both spectra with a 5% margin.
func mzRange(specs ...*core.Spectrum) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range specs {
		for _, peak := range s.Peaks {
			min = math.Min(min, peak.MZ)
			max = math.Max(max, peak.MZ)
		}
	}
	if math.IsInf(min, 1) {
		// No peaks at all; fall back to the precursors
		for _, s := range specs {
			max = math.Max(max, s.PrecursorMZ)
		}
		if max <= 0 || math.IsInf(max, -1) {
			max = 1
		}
		return 0, max * 1.05
	}
	pad := (max - min) * 0.05
	if pad == 0 {
		pad = 1
	}
	return math.Max(0, min-pad), max + pad
}

// Render builds the plot and encodes it in opts.Format.
func Render(top, bottom *core.Spectrum, opts Options) ([]byte, error) {
	p, err := New(top, bottom, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Write(p, &buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes p to w.
func Write(p *plot.Plot, w io.Writer, opts Options) error {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	switch format {
	case FormatPNG:
		var bg color.Color = color.White
		if opts.Transparent {
			bg = color.Transparent
		}
		dpi := opts.DPI
		if dpi <= 0 {
			dpi = vgimg.DefaultDPI
		}
		c := vgimg.NewWith(
			vgimg.UseWH(opts.Width, opts.Height),
			vgimg.UseDPI(dpi),
			vgimg.UseBackgroundColor(bg),
		)
		p.Draw(draw.New(c))
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatSVG:
		c := vgsvg.New(opts.Width, opts.Height)
		p.Draw(draw.New(c))
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("failed to encode svg: %w", err)
		}
	case FormatPDF:
		c := vgpdf.New(opts.Width, opts.Height)
		p.Draw(draw.New(c))
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("failed to encode pdf: %w", err)
		}
	}
	return nil
}

// mirrorTicks labels the negative half of the y axis with absolute values.
type mirrorTicks struct{}

func (mirrorTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strconv.FormatFloat(math.Abs(ticks[i].Value), 'f', -1, 64)
	}
	return ticks
}
