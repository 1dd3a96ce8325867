//go:build gnuplot

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Arafatk/glot"

	"github.com/HamletTheHamster/rotation-percentiles/internal/report"
)

// glot looks for gnuplot when the package loads and panics if it is
// missing, so it is only linked into binaries built with -tags gnuplot.

// previewPercentiles writes a quick gnuplot rendering of the percentile
// curves. It needs gnuplot on PATH.
func previewPercentiles(
	path string,
	b report.Bins,
) (
	error,
) {

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating preview directory: %w", err)
	}

	dimensions := 2
	persist := false
	debug := false
	plot, err := glot.NewPlot(dimensions, persist, debug)
	if err != nil {
		return fmt.Errorf("starting gnuplot: %w", err)
	}
	defer func() { _ = plot.Close() }()

	groups := []struct {
		name, style string
		y           []float64
	}{
		{"Standard p90", "lines", b.Std90},
		{"WMB p90", "lines", b.WMB90},
		{"LAMOST p90", "points", b.Obs90},
		{"Standard p10", "lines", b.Std10},
		{"WMB p10", "lines", b.WMB10},
		{"LAMOST p10", "points", b.Obs10},
	}
	for _, g := range groups {
		xy := finitePairs(b.Centers, g.y)
		if len(xy[0]) == 0 {
			continue
		}
		if err := plot.AddPointGroup(g.name, g.style, xy); err != nil {
			return fmt.Errorf("preview %s: %w", g.name, err)
		}
	}

	_ = plot.SetTitle("Rotation-period percentiles")
	_ = plot.SetXLabel("Effective temperature [K]")
	_ = plot.SetYLabel("Rotation period [d]")
	_ = plot.SetXrange(7000, 4500)

	return plot.SavePlot(path)
}
