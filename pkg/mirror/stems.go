package mirror

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ChrisMcGann/msmirror/pkg/core"
)

// stems draws one vertical line per peak from the zero axis, scaled so the
// base peak reaches fullScale. direction is +1 for up and -1 for down.
type stems struct {
	peaks     []core.Peak
	scale     float64
	direction float64
	draw.LineStyle
}

func newStems(spec *core.Spectrum, direction float64, c color.Color) *stems {
	scale := 0.0
	if base := spec.BasePeak(); base > 0 {
		scale = fullScale / base
	}
	return &stems{
		peaks:     spec.Peaks,
		scale:     scale,
		direction: direction,
		LineStyle: draw.LineStyle{
			Color: c,
			Width: vg.Points(1),
		},
	}
}

func (s *stems) height(intensity float64) float64 {
	return s.direction * math.Max(0, intensity) * s.scale
}

// Plot implements plot.Plotter.
func (s *stems) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	y0 := trY(0)
	for _, peak := range s.peaks {
		h := s.height(peak.Intensity)
		if h == 0 {
			continue
		}
		x := trX(peak.MZ)
		c.StrokeLine2(s.LineStyle, x, y0, x, trY(h))
	}
}

// DataRange implements plot.DataRanger.
func (s *stems) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(s.peaks) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, peak := range s.peaks {
		xmin = math.Min(xmin, peak.MZ)
		xmax = math.Max(xmax, peak.MZ)
		h := s.height(peak.Intensity)
		ymin = math.Min(ymin, h)
		ymax = math.Max(ymax, h)
	}
	return xmin, xmax, ymin, ymax
}

// Thumbnail implements plot.Thumbnailer for the legend.
func (s *stems) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(s.LineStyle, c.Min.X, y, c.Max.X, y)
}
