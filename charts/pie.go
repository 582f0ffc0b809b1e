package charts

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// LegendTitle heads the species pie legend.
const LegendTitle = "Species"

// Palette holds the slice colours in class order; it repeats when there are
// more classes than colours.
var Palette = []string{"#83c9ff", "#F0F089", "#C28EFA"}

// HighlightColor fills the slice of the predicted class.
const HighlightColor = "#FFA500"

// SpeciesPie renders class counts as an SVG pie chart. When highlight names a
// valid class index, that slice is drawn in HighlightColor. An out-of-range
// highlight is ignored.
func SpeciesPie(counts []int, labels []string, highlight *int) ([]byte, error) {
	if len(counts) == 0 {
		return nil, errors.NewModelError("charts.SpeciesPie", "no classes", errors.ErrEmptyData)
	}
	if len(labels) != len(counts) {
		return nil, errors.NewDimensionError("charts.SpeciesPie", len(counts), len(labels), 0)
	}

	colors, err := sliceColors(len(counts), highlight)
	if err != nil {
		return nil, err
	}

	pie := &pieChart{counts: counts, colors: colors}
	for _, c := range counts {
		if c < 0 {
			return nil, errors.NewValidationError("counts", "must not be negative", c)
		}
		pie.total += float64(c)
	}

	p := plot.New()
	p.HideAxes()
	p.Add(pie)
	p.Legend.Top = true
	p.Legend.Add(LegendTitle)
	for i, label := range labels {
		p.Legend.Add(label, swatch{colors[i]})
	}

	return render(p, PieWidth, PieHeight)
}

func sliceColors(n int, highlight *int) ([]color.Color, error) {
	hl, err := colorful.Hex(HighlightColor)
	if err != nil {
		return nil, errors.Wrap(err, "charts: highlight colour")
	}

	out := make([]color.Color, n)
	for i := range out {
		c, err := colorful.Hex(Palette[i%len(Palette)])
		if err != nil {
			return nil, errors.Wrapf(err, "charts: palette colour %d", i)
		}
		out[i] = c
	}
	if highlight != nil && *highlight >= 0 && *highlight < n {
		out[*highlight] = hl
	}
	return out, nil
}

// pieChart draws counts as slices starting at twelve o'clock, clockwise.
type pieChart struct {
	counts []int
	colors []color.Color
	total  float64
}

func (pc *pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	if pc.total == 0 {
		return
	}

	center := c.Center()
	w, h := c.Max.X-c.Min.X, c.Max.Y-c.Min.Y
	radius := vg.Length(math.Min(float64(w), float64(h))) * 0.45

	start := math.Pi / 2
	for i, n := range pc.counts {
		if n == 0 {
			continue
		}
		sweep := -2 * math.Pi * float64(n) / pc.total

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(pc.colors[i])
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		start += sweep
	}
}

// DataRange keeps the hidden axes fixed around the pie.
func (pc *pieChart) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}

// swatch is a filled legend square.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(s.color, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	})
}
