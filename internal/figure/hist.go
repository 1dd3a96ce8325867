package figure

import (
	"fmt"
	"image/color"
	"math"

	plotpalette "gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// Hist2D counts points on a regular grid. It implements plotter.GridXYZ;
// empty cells report NaN so they are left unpainted.
type Hist2D struct {
	x0, y0 float64
	dx, dy float64
	counts [][]float64 // [col][row]
}

// NewHist2D bins (x, y) into dx×dy cells whose edges start at the smallest
// finite x and y. Non-finite points are skipped.
func NewHist2D(
	x, y []float64,
	dx, dy float64,
) (
	*Hist2D, error,
) {

	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("figure: bin widths must be positive, got %g×%g", dx, dy)
	}

	pts := buildData([][]float64{x, y})
	if len(pts) == 0 {
		return nil, fmt.Errorf("figure: no finite points to bin")
	}

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
		ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
	}

	cols := int(math.Floor((xmax-xmin)/dx)) + 1
	rows := int(math.Floor((ymax-ymin)/dy)) + 1

	h := &Hist2D{x0: xmin, y0: ymin, dx: dx, dy: dy, counts: make([][]float64, cols)}
	for c := range h.counts {
		h.counts[c] = make([]float64, rows)
	}
	for _, p := range pts {
		c := int((p.X - xmin) / dx)
		r := int((p.Y - ymin) / dy)
		h.counts[c][r]++
	}

	return h, nil
}

func (h *Hist2D) Dims() (c, r int) {
	if len(h.counts) == 0 {
		return 0, 0
	}
	return len(h.counts), len(h.counts[0])
}

func (h *Hist2D) Z(c, r int) float64 {
	if h.counts[c][r] == 0 {
		return math.NaN()
	}
	return h.counts[c][r]
}

func (h *Hist2D) X(c int) float64 { return h.x0 + (float64(c)+0.5)*h.dx }
func (h *Hist2D) Y(r int) float64 { return h.y0 + (float64(r)+0.5)*h.dy }

// blues returns the ColorBrewer "Blues" map spanning [0, vmax], light at
// the low end. moreland needs rising luminance, so the controls run dark
// to light and the map is reversed.
func blues(
	vmax float64,
) (
	plotpalette.ColorMap, error,
) {

	p, err := brewer.GetPalette(brewer.TypeSequential, "Blues", 9)
	if err != nil {
		return nil, err
	}

	light := p.Colors()
	controls := make([]color.Color, len(light))
	for i := range light {
		controls[i] = light[len(light)-1-i]
	}

	cmap, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, err
	}
	cmap.SetMin(0)
	cmap.SetMax(vmax)

	return plotpalette.Reverse(cmap), nil
}
