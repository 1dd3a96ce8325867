package pipeline

import (
	"errors"
	"math"
)

// ErrNoPreview is returned for a preview request when the binary was built
// without gnuplot support.
var ErrNoPreview = errors.New("preview needs a build with -tags gnuplot")

// finitePairs drops the points where either coordinate is NaN or ±Inf.
func finitePairs(x, y []float64) [][]float64 {
	xy := [][]float64{{}, {}}
	for i := range x {
		if i >= len(y) {
			break
		}
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		xy[0] = append(xy[0], x[i])
		xy[1] = append(xy[1], y[i])
	}
	return xy
}
