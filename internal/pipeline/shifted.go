package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot/vg"

	"github.com/HamletTheHamster/rotation-percentiles/internal/catalog"
	"github.com/HamletTheHamster/rotation-percentiles/internal/figure"
	"github.com/HamletTheHamster/rotation-percentiles/internal/rotation"
)

const (
	shiftedWidth  = 6 * vg.Inch
	shiftedHeight = 5 * vg.Inch
)

// DwarfLogg is the surface gravity above which stars count as dwarfs on
// the shifted figures.
const DwarfLogg = 4.1

// ShiftedOptions configures RunShifted.
type ShiftedOptions struct {
	// Temperature offsets in K added to each observed sample.
	CKSShift    float64
	LamostShift float64

	// FiguresDir receives the four PDFs.
	FiguresDir string
	// Formats are extra extensions each figure is also saved as.
	Formats []string
	// Window is the bin half-width used by the shift-fit diagnostic.
	Window float64
}

// ShiftedResult lists the figures written and, per figure, the offset a
// free fit would have chosen.
type ShiftedResult struct {
	Figures []string
	Fitted  map[string]float64
}

type panel struct {
	file   string
	letter string
	model  catalog.Model
	survey string
}

var panels = []panel{
	{"std-model-cks-shifted.pdf", "a", catalog.Standard, "cks"},
	{"wmb-model-cks-shifted.pdf", "b", catalog.WMB, "cks"},
	{"std-model-lamost-shifted.pdf", "c", catalog.Standard, "lamost"},
	{"wmb-model-lamost-shifted.pdf", "d", catalog.WMB, "lamost"},
}

// RunShifted draws the CKS and LAMOST dwarfs, shifted in temperature, over
// 2-D histograms of both model populations.
func RunShifted(
	ctx context.Context,
	env *Env,
	d *Datasets,
	opts ShiftedOptions,
) (
	*ShiftedResult, error,
) {

	lam := catalog.LamostDwarfs(cleanLamost(env, d), DwarfLogg)
	cks := catalog.Dwarfs(catalog.JoinKOI(catalog.DedupCKS(d.CKS), d.KOI), DwarfLogg)
	env.Logger.Info("dwarf samples ready", "cks", len(cks), "lamost", len(lam), "koi_periods", catalog.KOIMatched(cks))

	type sample struct {
		label      string
		teff, prot []float64
		shift      float64
		dense      bool
	}
	samples := map[string]sample{
		"cks":    {label: "California–Kepler Survey", shift: opts.CKSShift},
		"lamost": {label: "LAMOST–McQuillan", shift: opts.LamostShift, dense: true},
	}
	s := samples["cks"]
	for _, st := range cks {
		s.teff = append(s.teff, st.Teff)
		s.prot = append(s.prot, st.Prot)
	}
	samples["cks"] = s
	s = samples["lamost"]
	for _, st := range lam {
		s.teff = append(s.teff, st.Teff)
		s.prot = append(s.prot, st.Prot)
	}
	samples["lamost"] = s

	populations := map[catalog.Model][]catalog.ModelStar{
		catalog.Standard: d.Standard,
		catalog.WMB:      d.WMB,
	}

	sun := figure.Sun{Teff: catalog.SunShifted.Teff, Prot: catalog.SunShifted.Prot}
	res := &ShiftedResult{Fitted: make(map[string]float64, len(panels))}

	for _, pn := range panels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		smp := samples[pn.survey]
		modelTeff, modelPeriod := catalog.ModelColumns(populations[pn.model])

		shifted := make([]float64, len(smp.teff))
		for i, t := range smp.teff {
			shifted[i] = t + smp.shift
		}

		fig, err := figure.ModelComparison(figure.Comparison{
			Title:       pn.model.Title(),
			Panel:       pn.letter,
			ModelTeff:   modelTeff,
			ModelPeriod: modelPeriod,
			SampleLabel: smp.label,
			SampleTeff:  shifted,
			SampleProt:  smp.prot,
			Dense:       smp.dense,
			Sun:         sun,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pn.file, err)
		}

		path := filepath.Join(opts.FiguresDir, pn.file)
		if err := figure.SaveAll(fig, shiftedWidth, shiftedHeight, path, opts.Formats...); err != nil {
			return nil, err
		}
		res.Figures = append(res.Figures, path)
		env.Logger.Info("figure saved", "path", path, "shift", smp.shift)

		// Compare the manual offset with the one that best aligns the
		// unshifted 90th-percentile curves.
		centers := rotation.BinCenters(binStart, binStop, binStep)
		obs := rotation.BinnedPercentile(smp.teff, smp.prot, centers, opts.Window, 90.)
		curve := rotation.BinnedPercentile(modelTeff, modelPeriod, centers, opts.Window, 90.)
		Δ := fitShift(env, pn.model, centers, obs, curve)
		res.Fitted[pn.file] = Δ
		env.Logger.Debug("teff shift", "figure", pn.file, "manual", smp.shift, "fitted", Δ)
	}

	return res, nil
}
