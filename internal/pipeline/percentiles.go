package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/plot/vg"

	"github.com/HamletTheHamster/rotation-percentiles/internal/catalog"
	"github.com/HamletTheHamster/rotation-percentiles/internal/figure"
	"github.com/HamletTheHamster/rotation-percentiles/internal/report"
	"github.com/HamletTheHamster/rotation-percentiles/internal/rotation"
)

// Temperature bins shared by the observed and model curves.
const (
	binStart = 4000.
	binStop  = 7000.
	binStep  = 20.
)

const (
	percentilesWidth  = 6.4 * vg.Inch
	percentilesHeight = 4.8 * vg.Inch
)

// PercentileOptions configures RunPercentiles.
type PercentileOptions struct {
	Samples  int
	Fraction float64
	Window   float64
	RoMax    float64
	// Seed 0 draws a random seed.
	Seed uint64

	// Figure is the output path, normally .../percentiles.pdf.
	Figure string
	// Formats are extra extensions the figure is also saved as.
	Formats []string
	// Table renders the per-bin and χ² tables to Env.Out.
	Table bool
	// Export writes the per-bin results to a .csv or .xlsx file.
	Export string
	// Preview writes a gnuplot quick-look PNG. Binaries built without
	// -tags gnuplot only log that the preview was skipped.
	Preview string
	// Replicates draws the spread of the 90th-percentile replicates in
	// every tenth bin to this path.
	Replicates string
}

// DefaultPercentileOptions returns the settings the published figure was
// made with.
func DefaultPercentileOptions(figurePath string) PercentileOptions {
	b := rotation.DefaultBootstrap()
	return PercentileOptions{
		Samples:  b.Samples,
		Fraction: b.Fraction,
		Window:   b.Window,
		RoMax:    b.RoMax,
		Figure:   figurePath,
	}
}

// PercentileResult is what RunPercentiles computed.
type PercentileResult struct {
	Bins report.Bins
	Fit  rotation.ModelFit
	// Shifts are the fitted Teff offsets that best align the observed 90th
	// percentile with each model, keyed by model label.
	Shifts map[string]float64
	// Ridge is the number of CKS pile-up stars drawn.
	Ridge int
}

// RunPercentiles bootstraps the 90th and 10th rotation-period percentiles
// of the LAMOST–McQuillan stars, compares them with both model
// populations and draws the percentiles figure.
func RunPercentiles(
	ctx context.Context,
	env *Env,
	d *Datasets,
	opts PercentileOptions,
) (
	*PercentileResult, error,
) {

	lam := cleanLamost(env, d)
	catalog.AttachRossby(lam)
	env.Logger.Info("lamost sample ready", "stars", len(lam))

	centers := rotation.BinCenters(binStart, binStop, binStep)
	rng := rotation.NewRand(opts.Seed)
	b := rotation.Bootstrap{
		Samples:    opts.Samples,
		Fraction:   opts.Fraction,
		Percentile: 90.,
		Window:     opts.Window,
		RoMax:      opts.RoMax,
	}
	sample := catalog.LamostSample(lam)

	obs90, err90 := b.Estimate(sample, centers, rng)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b90 := b
	b.Percentile = 10.
	obs10, err10 := b.Estimate(sample, centers, rng)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stdTeff, stdPeriod := catalog.ModelColumns(d.Standard)
	wmbTeff, wmbPeriod := catalog.ModelColumns(d.WMB)

	bins := report.Bins{
		Centers: centers,
		Obs90:   obs90,
		Err90:   err90,
		Obs10:   obs10,
		Err10:   err10,
		Std90:   rotation.BinnedPercentile(stdTeff, stdPeriod, centers, opts.Window, 90.),
		Std10:   rotation.BinnedPercentile(stdTeff, stdPeriod, centers, opts.Window, 10.),
		WMB90:   rotation.BinnedPercentile(wmbTeff, wmbPeriod, centers, opts.Window, 90.),
		WMB10:   rotation.BinnedPercentile(wmbTeff, wmbPeriod, centers, opts.Window, 10.),
	}

	cks := catalog.JoinKOI(catalog.DedupCKS(d.CKS), d.KOI)
	ridge := catalog.Ridge(cks)
	env.Logger.Debug("cks sample ready", "stars", len(cks), "koi_periods", catalog.KOIMatched(cks), "pile_up", len(ridge))

	curves := figure.PercentileCurves{
		Centers:   centers,
		Obs90:     bins.Obs90,
		Obs10:     bins.Obs10,
		Std90:     bins.Std90,
		Std10:     bins.Std10,
		WMB90:     bins.WMB90,
		WMB10:     bins.WMB10,
		RidgeTeff: make([]float64, len(ridge)),
		RidgeProt: make([]float64, len(ridge)),
	}
	// The pile-up is selected on SPOCS temperatures but drawn at the CKS ones.
	for i, s := range ridge {
		curves.RidgeTeff[i], curves.RidgeProt[i] = s.Teff, s.Prot
	}

	p, err := figure.Percentiles(curves)
	if err != nil {
		return nil, fmt.Errorf("percentiles figure: %w", err)
	}
	if err := figure.SaveAll(p, percentilesWidth, percentilesHeight, opts.Figure, opts.Formats...); err != nil {
		return nil, err
	}
	env.Logger.Info("figure saved", "path", opts.Figure)

	fit := rotation.CompareModels(bins.Obs90, bins.Std90, bins.WMB90, centers)
	env.Log.Println("WMB model chi-squared      :", pyFloat(fit.ChiSqWMB))
	env.Log.Println("Standard model chi-squared :", pyFloat(fit.ChiSqStandard))
	env.Log.Println("(Standard-WMB) chi-squared :", pyFloat(fit.Difference()))

	res := &PercentileResult{
		Bins:   bins,
		Fit:    fit,
		Shifts: make(map[string]float64, 2),
		Ridge:  len(ridge),
	}
	for _, m := range []struct {
		model catalog.Model
		curve []float64
	}{
		{catalog.Standard, bins.Std90},
		{catalog.WMB, bins.WMB90},
	} {
		res.Shifts[m.model.Label()] = fitShift(env, m.model, centers, bins.Obs90, m.curve)
	}

	if opts.Table {
		if err := report.RenderBins(env.Out, bins); err != nil {
			return nil, err
		}
		report.RenderFit(env.Out, fit, res.Shifts)
	}

	if opts.Export != "" {
		if err := report.Export(opts.Export, bins, fit); err != nil {
			return nil, err
		}
		env.Logger.Info("bins exported", "path", opts.Export)
	}

	if opts.Replicates != "" {
		if err := saveReplicates(opts.Replicates, b90, sample, centers, rng); err != nil {
			return nil, err
		}
		env.Logger.Info("replicate spread saved", "path", opts.Replicates)
	}

	if opts.Preview != "" {
		if err := previewPercentiles(opts.Preview, bins); err != nil {
			// Without a gnuplot build the figure is still written.
			env.Logger.Warn("preview failed", "path", opts.Preview, "err", err)
		}
	}

	return res, nil
}

// fitShift is a diagnostic: a failed fit is logged and reported as NaN.
func fitShift(
	env *Env,
	model catalog.Model,
	centers, obs, curve []float64,
) (
	float64,
) {

	Δ, err := rotation.FitTeffShift(centers, obs, curve, rotation.ChiSqTeffMin, rotation.ChiSqTeffMax, 0)
	switch {
	case errors.Is(err, rotation.ErrTooFewBins):
		env.Logger.Debug("teff shift not fitted", "model", string(model), "err", err)
		return math.NaN()
	case err != nil:
		env.Logger.Warn("teff shift fit failed", "model", string(model), "err", err)
		return math.NaN()
	}

	env.Logger.Info("fitted teff shift", "model", string(model), "shift", Δ)
	return Δ
}

// saveReplicates redraws the bootstrap in every tenth bin and saves the
// spread of the replicate percentiles.
func saveReplicates(
	path string,
	b rotation.Bootstrap,
	sample rotation.Sample,
	centers []float64,
	rng *rand.Rand,
) (
	error,
) {

	var sel []float64
	var reps [][]float64
	for i := 0; i < len(centers); i += 10 {
		sel = append(sel, centers[i])
		reps = append(reps, b.Replicates(b.Select(sample, centers[i]), rng))
	}

	title := fmt.Sprintf("%gth percentile, %d replicates", b.Percentile, b.Samples)
	p, err := figure.ReplicateSpread(title, sel, reps)
	if err != nil {
		return fmt.Errorf("replicate spread: %w", err)
	}
	return figure.Save(p, percentilesWidth, percentilesHeight, path)
}
