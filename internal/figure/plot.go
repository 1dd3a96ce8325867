// Package figure draws the rotation-period figures with gonum/plot.
package figure

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Text sizes for a single-column paper figure.
const (
	titleSize = 14
	labelSize = 13
	tickSize  = 11
	legendSz  = 10
)

// prepPlot builds an empty plot with the house style. xrange and yrange
// may be nil to let the data decide. The returned lines close the frame
// along the top and right edges; callers that want an open frame leave
// them out.
func prepPlot(
	title, xlabel, ylabel string,
	xrange, yrange []float64,
	xstep, ystep float64,
	invertX bool,
) (
	*plot.Plot,
	*plotter.Line, *plotter.Line,
	error,
) {

	p := plot.New()
	p.BackgroundColor = color.RGBA{A: 0}
	p.Title.Text = title
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = titleSize
	p.Title.Padding = font.Length(6)

	p.X.Label.Text = xlabel
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = labelSize
	p.X.Label.Padding = font.Length(4)
	p.X.LineStyle.Width = vg.Points(0.8)
	p.X.Tick.LineStyle.Width = vg.Points(0.8)
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = tickSize
	p.X.Padding = 0
	if invertX {
		p.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	}

	p.Y.Label.Text = ylabel
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = labelSize
	p.Y.Label.Padding = font.Length(4)
	p.Y.LineStyle.Width = vg.Points(0.8)
	p.Y.Tick.LineStyle.Width = vg.Points(0.8)
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = tickSize
	p.Y.Padding = 0

	if xrange != nil {
		p.X.Tick.Marker = plot.ConstantTicks(ticks(xrange, xstep))
	}
	if yrange != nil {
		p.Y.Tick.Marker = plot.ConstantTicks(ticks(yrange, ystep))
	}

	p.Legend.TextStyle.Font.Variant = "Sans"
	p.Legend.TextStyle.Font.Size = legendSz
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = vg.Points(6)
	p.Legend.YOffs = vg.Points(-6)
	p.Legend.Padding = vg.Points(2)
	p.Legend.ThumbnailWidth = vg.Points(20)

	if xrange == nil || yrange == nil {
		return p, nil, nil, nil
	}

	// Enclose plot
	right := xrange[1]
	if invertX {
		right = xrange[0]
	}

	tAxis, err := plotter.NewLine(plotter.XYs{
		{X: xrange[0], Y: yrange[1]},
		{X: xrange[1], Y: yrange[1]},
	})
	if err != nil {
		return nil, nil, nil, err
	}
	tAxis.LineStyle.Width = vg.Points(0.8)

	rAxis, err := plotter.NewLine(plotter.XYs{
		{X: right, Y: yrange[0]},
		{X: right, Y: yrange[1]},
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rAxis.LineStyle.Width = vg.Points(0.8)

	return p, tAxis, rAxis, nil
}

// limits pins the axis ranges. plot.Add widens the ranges to the data, so
// call this after every plotter has been added.
func limits(
	p *plot.Plot,
	xrange, yrange []float64,
) {

	if xrange != nil {
		p.X.Min, p.X.Max = math.Min(xrange[0], xrange[1]), math.Max(xrange[0], xrange[1])
	}
	if yrange != nil {
		p.Y.Min, p.Y.Max = math.Min(yrange[0], yrange[1]), math.Max(yrange[0], yrange[1])
	}
}

func ticks(
	span []float64,
	step float64,
) (
	[]plot.Tick,
) {

	lo, hi := math.Min(span[0], span[1]), math.Max(span[0], span[1])
	if step <= 0 {
		return []plot.Tick{
			{Value: lo, Label: strconv.FormatFloat(lo, 'g', -1, 64)},
			{Value: hi, Label: strconv.FormatFloat(hi, 'g', -1, 64)},
		}
	}

	var out []plot.Tick
	first := math.Ceil(lo/step) * step
	for v := first; v <= hi+step*1e-9; v += step {
		out = append(out, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
		for m := 1; m < 4; m++ {
			minor := v + float64(m)*step/4
			if minor < hi {
				out = append(out, plot.Tick{Value: minor})
			}
		}
	}
	return out
}

// palette returns colour brush of the seaborn "Blues" cycle (0-5), then
// the scatter orange and black.
func palette(
	brush int,
) (
	color.RGBA,
) {

	col := make([]color.RGBA, 8)
	col[0] = color.RGBA{R: 219, G: 233, B: 246, A: 255}
	col[1] = color.RGBA{R: 186, G: 215, B: 235, A: 255}
	col[2] = color.RGBA{R: 137, G: 190, B: 220, A: 255}
	col[3] = color.RGBA{R: 84, G: 158, B: 206, A: 255}
	col[4] = color.RGBA{R: 42, G: 123, B: 186, A: 255}
	col[5] = color.RGBA{R: 11, G: 85, B: 159, A: 255}
	col[6] = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	col[7] = color.RGBA{A: 255}

	return col[brush%len(col)]
}

const (
	orange = 6
	black  = 7
)

// faded returns c at the given opacity.
func faded(
	c color.RGBA,
	alpha float64,
) (
	color.NRGBA,
) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}

// buildData pairs data[0] with data[1], skipping points where either is
// NaN or infinite; plotter rejects them.
func buildData(
	data [][]float64,
) (
	plotter.XYs,
) {

	n := min(len(data[0]), len(data[1]))
	xy := make(plotter.XYs, 0, n)

	for i := range n {
		x, y := data[0][i], data[1][i]
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xy = append(xy, plotter.XY{X: x, Y: y})
	}

	return xy
}

// Drawer is anything that renders onto a canvas: a *plot.Plot or a
// composite figure.
type Drawer interface {
	Draw(draw.Canvas)
}

// Save renders d at w×h into path, creating the directory. The format
// comes from the extension.
func Save(
	d Drawer,
	w, h vg.Length,
	path string,
) (
	error,
) {

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating figure directory: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	d.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if _, err := c.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// SaveAll writes d to path and to the same name with each extra extension.
func SaveAll(
	d Drawer,
	w, h vg.Length,
	path string,
	extra ...string,
) (
	error,
) {

	if err := Save(d, w, h, path); err != nil {
		return err
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range extra {
		if err := Save(d, w, h, stem+"."+strings.TrimPrefix(ext, ".")); err != nil {
			return err
		}
	}
	return nil
}
