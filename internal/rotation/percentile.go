package rotation

import (
	"math"
	"sort"
)

// NanPercentile returns the pct-th percentile (0-100) of x, ignoring NaN
// entries. Ranks are interpolated linearly between the two closest order
// statistics, the same definition numpy uses by default. An empty or
// all-NaN x gives NaN.
func NanPercentile(
	x []float64,
	pct float64,
) (
	float64,
) {

	finite := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 || math.IsNaN(pct) {
		return math.NaN()
	}
	sort.Float64s(finite)

	return sortedPercentile(finite, pct)
}

// Median returns the median of x. Unlike NanPercentile any NaN in x makes
// the result NaN.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	for _, v := range sorted {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	sort.Float64s(sorted)
	return sortedPercentile(sorted, 50)
}

func sortedPercentile(
	sorted []float64,
	pct float64,
) (
	float64,
) {

	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := pct / 100 * float64(n-1)
	switch {
	case rank <= 0:
		return sorted[0]
	case rank >= float64(n-1):
		return sorted[n-1]
	}

	lo := math.Floor(rank)
	i := int(lo)
	frac := rank - lo
	if frac == 0 {
		return sorted[i]
	}
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

// BinCenters returns start, start+step, ... up to and including stop.
// BinCenters(4000, 7000, 20) gives the 151 centers used by both figures.
func BinCenters(
	start, stop, step float64,
) (
	[]float64,
) {

	if step <= 0 || stop < start {
		return nil
	}

	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = start + float64(i)*step
	}
	return centers
}

// InWindow reports whether teff lies strictly within window of center.
func InWindow(
	teff, center, window float64,
) (
	bool,
) {
	return math.Abs(teff-center) < window
}

// BinnedPercentile computes the pct-th percentile of period for the stars
// within window of each center. Bins without stars are NaN.
func BinnedPercentile(
	teff, period, centers []float64,
	window, pct float64,
) (
	[]float64,
) {

	out := make([]float64, len(centers))
	var inBin []float64

	for i, tc := range centers {
		inBin = inBin[:0]
		for j, t := range teff {
			if InWindow(t, tc, window) {
				inBin = append(inBin, period[j])
			}
		}
		out[i] = NanPercentile(inBin, pct)
	}

	return out
}
