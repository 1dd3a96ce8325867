package figure

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	teffLabel = "Effective temperature [K]"
	protLabel = "Rotation period [d]"
)

// PercentileCurves holds everything drawn on the percentiles figure. All
// curves are evaluated at Centers.
type PercentileCurves struct {
	Centers []float64

	Obs90, Obs10 []float64
	Std90, Std10 []float64
	WMB90, WMB10 []float64

	// Pile-up stars, drawn as open circles.
	RidgeTeff, RidgeProt []float64
}

// Percentiles draws the bootstrapped LAMOST–McQuillan percentiles against
// both model populations, temperature decreasing to the right.
//
// The standard and WMB styles trade places on the 10th-percentile curves so
// the thick pale line stays underneath.
func Percentiles(
	c PercentileCurves,
) (
	*plot.Plot, error,
) {

	xrange := []float64{4500, 7000}

	p, _, _, err := prepPlot("", teffLabel, protLabel, xrange, nil, 500, 0, true)
	if err != nil {
		return nil, err
	}

	thick := func(y []float64) (*plotter.Line, error) {
		l, err := plotter.NewLine(buildData([][]float64{c.Centers, y}))
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = faded(palette(2), 0.5)
		l.LineStyle.Width = vg.Points(6)
		return l, nil
	}
	dashed := func(y []float64) (*plotter.Line, error) {
		l, err := plotter.NewLine(buildData([][]float64{c.Centers, y}))
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = faded(palette(5), 0.5)
		l.LineStyle.Width = vg.Points(3)
		l.LineStyle.Dashes = []vg.Length{vg.Points(11), vg.Points(5)}
		return l, nil
	}
	dots := func(y []float64) (*plotter.Scatter, error) {
		s, err := plotter.NewScatter(buildData([][]float64{c.Centers, y}))
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = palette(black)
		s.GlyphStyle.Radius = vg.Points(0.8)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		return s, nil
	}

	std90, err := thick(c.Std90)
	if err != nil {
		return nil, fmt.Errorf("standard 90th percentile: %w", err)
	}
	wmb90, err := dashed(c.WMB90)
	if err != nil {
		return nil, fmt.Errorf("WMB 90th percentile: %w", err)
	}
	obs90, err := dots(c.Obs90)
	if err != nil {
		return nil, fmt.Errorf("observed 90th percentile: %w", err)
	}

	ridge, err := plotter.NewScatter(buildData([][]float64{c.RidgeTeff, c.RidgeProt}))
	if err != nil {
		return nil, fmt.Errorf("pile-up: %w", err)
	}
	ridge.GlyphStyle.Color = faded(palette(black), 0.5)
	ridge.GlyphStyle.Radius = vg.Points(2)
	ridge.GlyphStyle.Shape = draw.RingGlyph{}

	wmb10, err := thick(c.WMB10)
	if err != nil {
		return nil, fmt.Errorf("WMB 10th percentile: %w", err)
	}
	std10, err := dashed(c.Std10)
	if err != nil {
		return nil, fmt.Errorf("standard 10th percentile: %w", err)
	}
	obs10, err := dots(c.Obs10)
	if err != nil {
		return nil, fmt.Errorf("observed 10th percentile: %w", err)
	}

	p.Add(std90, wmb90, obs90, ridge, wmb10, std10, obs10)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = vg.Points(-6)
	p.Legend.TextStyle.Font.Size = 13
	p.Legend.Add("Standard model", std90)
	p.Legend.Add("WMB model", wmb90)
	p.Legend.Add("LAMOST–McQuillan", obs90)
	p.Legend.Add("CKS long-period pile-up", ridge)

	limits(p, xrange, nil)

	return p, nil
}

// Sun is the solar reference point.
type Sun struct {
	Teff, Prot float64
}

// Comparison describes one model-population histogram with an observed
// sample on top.
type Comparison struct {
	Title string
	Panel string

	ModelTeff, ModelPeriod []float64

	SampleLabel            string
	SampleTeff, SampleProt []float64
	// Dense samples get smaller, translucent markers.
	Dense bool

	Sun Sun
}

// Composite is a plot with a colour bar strip on its right.
type Composite struct {
	Main     *plot.Plot
	ColorBar *plot.Plot
	Panel    string

	// BarWidth is the width given to the colour bar strip.
	BarWidth vg.Length
}

// Draw implements Drawer.
func (f *Composite) Draw(c draw.Canvas) {
	w := c.Max.X - c.Min.X
	bar := f.BarWidth
	if bar == 0 {
		bar = w / 7
	}

	f.Main.Draw(draw.Crop(c, 0, -bar, 0, 0))
	if f.ColorBar != nil {
		f.ColorBar.Draw(draw.Crop(c, w-bar+vg.Points(12), 0, vg.Points(34), -vg.Points(24)))
	}

	if f.Panel != "" {
		sty := draw.TextStyle{
			Color:   palette(black),
			Font:    font.From(font.Font{Typeface: "Liberation", Variant: "Sans"}, 16),
			XAlign:  draw.XRight,
			YAlign:  draw.YTop,
			Handler: plot.DefaultTextHandler,
		}
		c.FillText(sty, vg.Point{X: c.Max.X - vg.Points(4), Y: c.Max.Y - vg.Points(4)}, f.Panel)
	}
}

// Histogram limits and bins.
var (
	histTeff = []float64{5000, 6500}
	histProt = []float64{0, 50}
)

const (
	histBinTeff = 20.
	histBinProt = 0.5
	histVMax    = 100.
)

// ModelComparison draws a model population as a 2-D histogram (20 K by
// 0.5 d bins, counts saturating at 100) with the observed sample and the
// Sun over it.
func ModelComparison(
	c Comparison,
) (
	*Composite, error,
) {

	p, t, r, err := prepPlot(c.Title, teffLabel, protLabel, histTeff, histProt, 500, 10, true)
	if err != nil {
		return nil, err
	}

	cmap, err := blues(histVMax)
	if err != nil {
		return nil, fmt.Errorf("colour map: %w", err)
	}

	hist, err := NewHist2D(c.ModelTeff, c.ModelPeriod, histBinTeff, histBinProt)
	if err != nil {
		return nil, fmt.Errorf("model histogram: %w", err)
	}
	pal := cmap.Palette(256)
	heat := plotter.NewHeatMap(hist, pal)
	heat.Min, heat.Max = 0, histVMax
	heat.Overflow = pal.Colors()[len(pal.Colors())-1]

	sample, err := plotter.NewScatter(buildData([][]float64{c.SampleTeff, c.SampleProt}))
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	sample.GlyphStyle.Shape = draw.CircleGlyph{}
	sample.GlyphStyle.Color = palette(orange)
	sample.GlyphStyle.Radius = vg.Points(0.7)

	// The legend marker is drawn larger than the data markers.
	thumb := &plotter.Scatter{GlyphStyle: sample.GlyphStyle}
	thumb.GlyphStyle.Radius = vg.Points(2.5)
	if c.Dense {
		sample.GlyphStyle.Color = faded(palette(orange), 0.75)
		sample.GlyphStyle.Radius = vg.Points(0.4)
	}

	ring, err := plotter.NewScatter(plotter.XYs{{X: c.Sun.Teff, Y: c.Sun.Prot}})
	if err != nil {
		return nil, fmt.Errorf("sun: %w", err)
	}
	ring.GlyphStyle.Shape = draw.RingGlyph{}
	ring.GlyphStyle.Color = palette(black)
	ring.GlyphStyle.Radius = vg.Points(4)

	dot, err := plotter.NewScatter(plotter.XYs{{X: c.Sun.Teff, Y: c.Sun.Prot}})
	if err != nil {
		return nil, fmt.Errorf("sun: %w", err)
	}
	dot.GlyphStyle.Shape = draw.CircleGlyph{}
	dot.GlyphStyle.Color = palette(black)
	dot.GlyphStyle.Radius = vg.Points(1.2)

	p.Add(heat, sample, ring, dot, t, r)
	p.Legend.Add(c.SampleLabel, thumb)
	limits(p, histTeff, histProt)

	bar := plot.New()
	bar.BackgroundColor = p.BackgroundColor
	bar.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true})
	bar.HideX()
	bar.Y.Min, bar.Y.Max = 0, histVMax
	bar.Y.Padding = 0
	bar.Y.Tick.Label.Font.Size = tickSize
	bar.Y.Label.Text = "N stars"
	bar.Y.Label.TextStyle.Font.Size = labelSize

	return &Composite{Main: p, ColorBar: bar, Panel: c.Panel, BarWidth: vg.Inch}, nil
}
