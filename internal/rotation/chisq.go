package rotation

import (
	"gonum.org/v1/gonum/floats"
)

// Comparison range for the χ² statistic, exclusive on both ends.
const (
	ChiSqTeffMin = 4500.
	ChiSqTeffMax = 6250.
)

// ChiSquared returns Σ (obs − model)² / model over the bins with
// lo < center < hi. NaN in any included bin propagates.
func ChiSquared(
	obs, model, centers []float64,
	lo, hi float64,
) (
	float64,
) {

	terms := make([]float64, 0, len(centers))
	for i, tc := range centers {
		if tc <= lo || tc >= hi {
			continue
		}
		d := obs[i] - model[i]
		terms = append(terms, d*d/model[i])
	}
	return floats.Sum(terms)
}

// ModelFit holds the χ² of the observed 90th-percentile curve against
// both models.
type ModelFit struct {
	ChiSqWMB      float64
	ChiSqStandard float64
}

// Difference is χ²(standard) − χ²(WMB); positive favours WMB.
func (m ModelFit) Difference() float64 {
	return m.ChiSqStandard - m.ChiSqWMB
}

// CompareModels evaluates ChiSquared for both models over the default range.
func CompareModels(
	obs, standard, wmb, centers []float64,
) (
	ModelFit,
) {

	return ModelFit{
		ChiSqWMB:      ChiSquared(obs, wmb, centers, ChiSqTeffMin, ChiSqTeffMax),
		ChiSqStandard: ChiSquared(obs, standard, centers, ChiSqTeffMin, ChiSqTeffMax),
	}
}
