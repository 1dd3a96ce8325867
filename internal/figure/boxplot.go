package figure

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ReplicateSpread draws one box per temperature bin summarising the
// bootstrap replicate percentiles of that bin. Bins without finite
// replicates are skipped.
func ReplicateSpread(
	title string,
	centers []float64,
	replicates [][]float64,
) (
	*plot.Plot, error,
) {

	if len(centers) != len(replicates) {
		return nil, fmt.Errorf("figure: %d centers for %d replicate sets", len(centers), len(replicates))
	}

	p, _, _, err := prepPlot(title, teffLabel, protLabel, nil, nil, 0, 0, true)
	if err != nil {
		return nil, err
	}

	drawn := 0
	for i, tc := range centers {
		var values plotter.Values
		for _, v := range replicates[i] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		box, err := plotter.NewBoxPlot(vg.Points(6), tc, values)
		if err != nil {
			return nil, fmt.Errorf("bin %g: %w", tc, err)
		}
		box.FillColor = palette(3)
		box.BoxStyle.Width = vg.Points(0.5)
		box.MedianStyle.Width = vg.Points(1)
		box.WhiskerStyle.Width = vg.Points(0.5)
		box.GlyphStyle.Radius = vg.Points(1)
		p.Add(box)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("figure: no bin has finite replicates")
	}

	return p, nil
}
