package catalog

import (
	"math"
	"sort"

	"github.com/HamletTheHamster/rotation-percentiles/internal/rotation"
)

// DedupFirst keeps the first row for every key, preserving order.
func DedupFirst[T any, K comparable](
	rows []T,
	key func(T) K,
) (
	[]T,
) {

	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// DedupCKS drops repeat entries of stars hosting several KOIs.
func DedupCKS(stars []CKSStar) []CKSStar {
	return DedupFirst(stars, func(s CKSStar) int64 { return s.KepID })
}

// DedupLamost keeps the first row per KIC. After SortLamost that is the
// brightest source.
func DedupLamost(stars []LamostStar) []LamostStar {
	return DedupFirst(stars, func(s LamostStar) int64 { return s.KIC })
}

// SortLamost orders stars by KIC and then Gmag, both ascending, with
// missing magnitudes last. The sort is stable.
func SortLamost(stars []LamostStar) []LamostStar {
	out := make([]LamostStar, len(stars))
	copy(out, stars)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.KIC != b.KIC {
			return a.KIC < b.KIC
		}
		switch {
		case math.IsNaN(a.Gmag):
			return false
		case math.IsNaN(b.Gmag):
			return true
		}
		return a.Gmag < b.Gmag
	})
	return out
}

// JoinMcQuillan left-joins the McQuillan et al. (2014) table on KIC. A
// star matched by several rows appears once per match.
func JoinMcQuillan(
	stars []LamostStar,
	mcq []McQuillanStar,
) (
	[]LamostStar,
) {

	matches := make(map[int64]int, len(mcq))
	for _, m := range mcq {
		matches[m.KIC]++
	}

	out := make([]LamostStar, 0, len(stars))
	for _, s := range stars {
		n := matches[s.KIC]
		if n == 0 {
			s.InMcQuillan = false
			out = append(out, s)
			continue
		}
		s.InMcQuillan = true
		for range n {
			out = append(out, s)
		}
	}
	return out
}

// JoinKOI left-joins the KOI rotation periods on kepid. Unmatched stars
// keep McqKIC 0 and a NaN McqProt.
func JoinKOI(
	stars []CKSStar,
	koi []KOIRotator,
) (
	[]CKSStar,
) {

	byKIC := make(map[int64][]KOIRotator, len(koi))
	for _, k := range koi {
		byKIC[k.KIC] = append(byKIC[k.KIC], k)
	}

	out := make([]CKSStar, 0, len(stars))
	for _, s := range stars {
		ks := byKIC[s.KepID]
		if len(ks) == 0 {
			s.McqKIC, s.McqProt = 0, math.NaN()
			out = append(out, s)
			continue
		}
		for _, k := range ks {
			s.McqKIC, s.McqProt = k.KIC, k.Prot
			out = append(out, s)
		}
	}
	return out
}

// LamostQuality reports whether a LAMOST star passes the quality cuts:
// Teff below 8000 K, 3 < logg < 5 and |[Fe/H]| < 2. Missing values fail.
//
// The 3000 K lower temperature bound of the published cut was never in
// effect and is not applied here either.
func LamostQuality(s LamostStar) bool {
	return s.Teff < 8000 &&
		s.Logg > 3 && s.Logg < 5 &&
		math.Abs(s.FeH) < 2
}

// MaskLamost keeps the stars passing LamostQuality.
func MaskLamost(stars []LamostStar) []LamostStar {
	out := make([]LamostStar, 0, len(stars))
	for _, s := range stars {
		if LamostQuality(s) {
			out = append(out, s)
		}
	}
	return out
}

// CleanLamost runs the full LAMOST preparation: brightest source per KIC,
// McQuillan join and quality cuts.
func CleanLamost(
	stars []LamostStar,
	mcq []McQuillanStar,
) (
	[]LamostStar,
) {
	return MaskLamost(DedupLamost(JoinMcQuillan(SortLamost(stars), mcq)))
}

// AttachRossby fills Ro from Prot and Teff.
func AttachRossby(stars []LamostStar) {
	for i := range stars {
		stars[i].Ro = rotation.Rossby(stars[i].Prot, stars[i].Teff)
	}
}

// UniqueKIC counts distinct KIC identifiers.
func UniqueKIC(stars []LamostStar) int {
	seen := make(map[int64]struct{}, len(stars))
	for _, s := range stars {
		seen[s.KIC] = struct{}{}
	}
	return len(seen)
}

// UniqueDR2 counts distinct Gaia DR2 names.
func UniqueDR2(stars []LamostStar) int {
	seen := make(map[string]struct{}, len(stars))
	for _, s := range stars {
		seen[s.DR2Name] = struct{}{}
	}
	return len(seen)
}

// InMcQuillan counts the stars matched in the McQuillan et al. (2014) table.
func InMcQuillan(stars []LamostStar) int {
	n := 0
	for _, s := range stars {
		if s.InMcQuillan {
			n++
		}
	}
	return n
}

// KOIMatched counts the CKS stars with a McQuillan et al. (2013) KOI
// period.
func KOIMatched(stars []CKSStar) int {
	n := 0
	for _, s := range stars {
		if s.McqKIC != 0 && !math.IsNaN(s.McqProt) {
			n++
		}
	}
	return n
}

// MedianTeffErr is the median LAMOST temperature uncertainty. Any missing
// uncertainty makes it NaN.
func MedianTeffErr(stars []LamostStar) float64 {
	e := make([]float64, len(stars))
	for i, s := range stars {
		e[i] = s.ETeff
	}
	return rotation.Median(e)
}

// MainSequence keeps the model stars with evo == 1.
func MainSequence(stars []ModelStar) []ModelStar {
	out := make([]ModelStar, 0, len(stars))
	for _, s := range stars {
		if s.Evo == 1 {
			out = append(out, s)
		}
	}
	return out
}

// Dwarfs keeps the CKS stars with logg above min.
func Dwarfs(stars []CKSStar, min float64) []CKSStar {
	out := make([]CKSStar, 0, len(stars))
	for _, s := range stars {
		if s.Logg > min {
			out = append(out, s)
		}
	}
	return out
}

// LamostDwarfs keeps the LAMOST stars with logg above min.
func LamostDwarfs(stars []LamostStar, min float64) []LamostStar {
	out := make([]LamostStar, 0, len(stars))
	for _, s := range stars {
		if s.Logg > min {
			out = append(out, s)
		}
	}
	return out
}

// Ridge keeps the CKS dwarfs on the long-period pile-up.
func Ridge(stars []CKSStar) []CKSStar {
	out := make([]CKSStar, 0)
	for _, s := range stars {
		if rotation.InRidge(s.STeff, s.Prot, s.Logg) {
			out = append(out, s)
		}
	}
	return out
}

// LamostSample returns the columns fed to the bootstrap.
func LamostSample(stars []LamostStar) rotation.Sample {
	s := rotation.Sample{
		Teff: make([]float64, len(stars)),
		Prot: make([]float64, len(stars)),
		Ro:   make([]float64, len(stars)),
	}
	for i, st := range stars {
		s.Teff[i], s.Prot[i], s.Ro[i] = st.Teff, st.Prot, st.Ro
	}
	return s
}

// ModelColumns returns the Teff and period columns of a population.
func ModelColumns(stars []ModelStar) (teff, period []float64) {
	teff = make([]float64, len(stars))
	period = make([]float64, len(stars))
	for i, s := range stars {
		teff[i], period[i] = s.Teff, s.Period
	}
	return teff, period
}
