// Package charts renders the dashboard's SVG charts with gonum/plot.
package charts

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// MaxBins caps the number of histogram bars.
const MaxBins = 20

// Chart sizes.
var (
	HistogramWidth  = 4 * vg.Inch
	HistogramHeight = 3 * vg.Inch
	PieWidth        = 5 * vg.Inch
	PieHeight       = 4 * vg.Inch
)

var histogramFill = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Histogram renders the distribution of values as an SVG bar chart with the
// sample count on the y axis. bins is clamped to [1, MaxBins].
func Histogram(values []float64, title string, bins int) ([]byte, error) {
	if len(values) == 0 {
		return nil, errors.NewModelError("charts.Histogram", title, errors.ErrEmptyData)
	}
	if bins < 1 || bins > MaxBins {
		bins = MaxBins
	}

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, errors.Wrap(err, "charts.Histogram")
	}
	h.FillColor = histogramFill
	h.LineStyle.Color = color.White

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = title
	p.Y.Label.Text = "Count"
	p.Add(h)

	return render(p, HistogramWidth, HistogramHeight)
}

func render(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, errors.Wrap(err, "charts: svg canvas")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "charts: write svg")
	}
	return buf.Bytes(), nil
}
