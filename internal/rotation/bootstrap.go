package rotation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// Sample is an observed set of stars: one entry per star in each slice.
// Ro may be nil, in which case no rotational-stage cut is applied.
type Sample struct {
	Teff []float64
	Prot []float64
	Ro   []float64
}

// Bootstrap configures the per-bin percentile bootstrap.
type Bootstrap struct {
	// Samples is the number of replicates drawn per bin.
	Samples int
	// Fraction of the bin's stars drawn (with replacement) per replicate.
	Fraction float64
	// Percentile in [0, 100].
	Percentile float64
	// Window is the half-width of a bin in K.
	Window float64
	// RoMax excludes stars with Ro >= RoMax. Zero disables the cut.
	RoMax float64
}

// DefaultBootstrap returns 100 replicates of half the bin, 90th percentile,
// ±100 K bins and the Ro < 5/3 cut.
func DefaultBootstrap() Bootstrap {
	return Bootstrap{
		Samples:    100,
		Fraction:   0.5,
		Percentile: 90.,
		Window:     100.,
		RoMax:      RoCrit,
	}
}

// ResampleSize is the number of draws per replicate: floor(f·n).
func ResampleSize(
	n int,
	f float64,
) (
	int,
) {

	if n <= 0 || f <= 0 {
		return 0
	}
	return int(math.Floor(f * float64(n)))
}

// Select returns the periods of the stars inside the bin centered on tc.
func (b Bootstrap) Select(
	s Sample,
	tc float64,
) (
	[]float64,
) {

	var x []float64
	for i, t := range s.Teff {
		if !InWindow(t, tc, b.Window) {
			continue
		}
		// NaN Ro fails the comparison and is dropped.
		if b.RoMax > 0 && s.Ro != nil && !(s.Ro[i] < b.RoMax) {
			continue
		}
		x = append(x, s.Prot[i])
	}
	return x
}

// Replicates draws b.Samples resampled percentiles of x. An empty x gives a
// slice of NaN.
func (b Bootstrap) Replicates(
	x []float64,
	rng *rand.Rand,
) (
	[]float64,
) {

	pctls := make([]float64, b.Samples)
	size := ResampleSize(len(x), b.Fraction)
	draw := make([]float64, size)

	for n := range pctls {
		for k := range draw {
			draw[k] = x[rng.IntN(len(x))]
		}
		pctls[n] = NanPercentile(draw, b.Percentile)
	}
	return pctls
}

// Estimate runs the bootstrap for every bin center. The estimate is the
// mean of the replicate percentiles and the uncertainty their population
// standard deviation; bins without stars report NaN for both.
func (b Bootstrap) Estimate(
	s Sample,
	centers []float64,
	rng *rand.Rand,
) (
	[]float64, []float64,
) {

	est := make([]float64, len(centers))
	σ := make([]float64, len(centers))

	for i, tc := range centers {
		pctls := b.Replicates(b.Select(s, tc), rng)
		est[i], σ[i] = meanStd(pctls)
	}
	return est, σ
}

// NewRand returns a PCG generator; seed 0 draws a random seed.
func NewRand(
	seed uint64,
) (
	*rand.Rand,
) {

	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func meanStd(
	values []float64,
) (
	float64, float64,
) {

	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	mean := stat.Mean(values, nil)

	// Sum of squares of the difference
	dev := 0.
	for _, v := range values {
		dev += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(dev / float64(len(values)))
}
