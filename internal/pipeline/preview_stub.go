//go:build !gnuplot

package pipeline

import "github.com/HamletTheHamster/rotation-percentiles/internal/report"

func previewPercentiles(string, report.Bins) error {
	return ErrNoPreview
}
