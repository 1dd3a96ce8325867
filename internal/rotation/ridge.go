package rotation

// The long-period pile-up in the CKS sample sits between two parallel
// lines in the (Teff, Prot) plane, running from 24 d at 5800 K down to
// 2 d at 6500 K.
const (
	ridgeSlope = (2. - 24.) / (6500. - 5800.)

	RidgeTeffMin = 5850.
	RidgeTeffMax = 6500.
	RidgeLoggMin = 4.
)

// RidgeHi is the upper edge of the pile-up at teff.
func RidgeHi(teff float64) float64 {
	b := 2 - ridgeSlope*6500
	return ridgeSlope*teff + b
}

// RidgeLo is the lower edge of the pile-up at teff.
func RidgeLo(teff float64) float64 {
	b := -5 - ridgeSlope*6500
	return ridgeSlope*teff + b
}

// InRidge reports whether a main-sequence star belongs to the pile-up.
// All comparisons are strict so NaN inputs are excluded.
func InRidge(
	teff, prot, logg float64,
) (
	bool,
) {

	return logg > RidgeLoggMin &&
		teff > RidgeTeffMin &&
		teff < RidgeTeffMax &&
		prot < RidgeHi(teff) &&
		prot > RidgeLo(teff)
}
