// Package rotation holds the numerics behind the rotation-period figures:
// convective turnover timescales, NaN-aware percentiles, the per-bin
// bootstrap, the model comparison statistic and the Teff shift fit.
package rotation

import (
	"math"
)

// RoCrit is the Rossby number above which stars are excluded from the
// bootstrap sample.
const RoCrit = 5. / 3.

// ConvectiveTurnover returns the convective turnover timescale in days for
// an effective temperature in K.
func ConvectiveTurnover(
	teff float64,
) (
	float64,
) {
	return 314.24*math.Exp(-(teff/1952.5)-math.Pow(teff/6250., 18.)) + 0.002
}

// Rossby returns prot / τ(teff). NaN in either input gives NaN.
func Rossby(
	prot, teff float64,
) (
	float64,
) {
	return prot / ConvectiveTurnover(teff)
}

// RossbyAll applies Rossby elementwise.
func RossbyAll(
	prot, teff []float64,
) (
	[]float64,
) {

	ro := make([]float64, len(prot))
	for i := range prot {
		ro[i] = Rossby(prot[i], teff[i])
	}
	return ro
}
