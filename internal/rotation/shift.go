package rotation

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/interp"
)

// ErrTooFewBins is returned when a fit has fewer usable bins than it needs.
var ErrTooFewBins = errors.New("rotation: too few finite bins to fit")

// FitTeffShift finds the offset Δ (K) that, added to the observed
// temperatures, best maps the observed percentile curve onto the model
// curve. Only bins with lo < center < hi where both curves are finite
// take part. The model curve is interpolated linearly between centers and
// held constant past its ends.
func FitTeffShift(
	centers, obs, model []float64,
	lo, hi, guess float64,
) (
	float64, error,
) {

	var mx, my []float64
	for i, tc := range centers {
		if math.IsNaN(model[i]) || math.IsInf(model[i], 0) {
			continue
		}
		mx = append(mx, tc)
		my = append(my, model[i])
	}
	if len(mx) < 2 {
		return math.NaN(), ErrTooFewBins
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(mx, my); err != nil {
		return math.NaN(), fmt.Errorf("interpolating model curve: %w", err)
	}

	var tx, ty []float64
	for i, tc := range centers {
		if tc <= lo || tc >= hi {
			continue
		}
		if math.IsNaN(obs[i]) || math.IsInf(obs[i], 0) {
			continue
		}
		tx = append(tx, tc)
		ty = append(ty, obs[i])
	}
	if len(tx) < 1 {
		return math.NaN(), ErrTooFewBins
	}

	f := func(dst, guess []float64) {
		Δ := guess[0]
		for i := range tx {
			dst[i] = ty[i] - pl.Predict(tx[i]+Δ)
		}
	}

	return solveShift(f, len(tx), guess)
}

func solveShift(
	f func(dst, guess []float64),
	size int,
	guess float64,
) (
	Δ float64, err error,
) {

	// lm panics on a singular normal matrix (a flat model curve).
	defer func() {
		if r := recover(); r != nil {
			Δ, err = math.NaN(), fmt.Errorf("fitting Teff shift: %v", r)
		}
	}()

	jacobian := lm.NumJac{Func: f}

	// Solve for fit
	toBeSolved := lm.LMProblem{
		Dim:        1,
		Size:       size,
		Func:       f,
		Jac:        jacobian.Jac,
		InitParams: []float64{guess},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	results, err := lm.LM(toBeSolved, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return math.NaN(), fmt.Errorf("fitting Teff shift: %w", err)
	}

	return results.X[0], nil
}
