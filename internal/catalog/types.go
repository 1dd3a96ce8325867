// Package catalog loads the observational catalogs and model populations
// and implements the joins, deduplication and quality cuts applied to them.
//
// Column names in the queries are the upstream catalog names and must not
// be changed.
package catalog

// CKSStar is one row of the California-Kepler Survey table, augmented with
// the McQuillan et al. (2013) KOI periods after JoinKOI.
type CKSStar struct {
	KepID int64   // kepid
	Teff  float64 // cks_Teff
	Prot  float64 // d21_prot
	Logg  float64 // p20_cks_slogg
	STeff float64 // p20_cks_steff

	McqKIC  int64   // mcq_KIC, 0 when unmatched
	McqProt float64 // mcq_Prot, NaN when unmatched
}

// LamostStar is one row of the LAMOST–Kepler cross-match.
type LamostStar struct {
	KIC     int64   // KIC
	DR2Name string  // DR2Name
	Gmag    float64 // Gmag
	Teff    float64 // Teff_lam
	ETeff   float64 // e_Teff_lam
	Logg    float64 // logg_lam
	FeH     float64 // feh_lam
	Prot    float64 // Prot

	// InMcQuillan is set by JoinMcQuillan when the star appears in the
	// McQuillan et al. (2014) table.
	InMcQuillan bool
	// Ro is filled by AttachRossby.
	Ro float64
}

// McQuillanStar is the part of the McQuillan et al. (2014) table used for
// the LAMOST join.
type McQuillanStar struct {
	KIC int64 // mcq_KIC
}

// KOIRotator is a row of the McQuillan et al. (2013) KOI table.
type KOIRotator struct {
	KIC  int64   // mcq_KIC
	Prot float64 // mcq_Prot
}

// ModelStar is a simulated star from a population synthesis.
type ModelStar struct {
	Evo    int     // evo
	Teff   float64 // Teff
	Period float64 // period
}

// Model identifies one of the two spin-down populations.
type Model string

const (
	Standard Model = "std"
	WMB      Model = "roc"
)

// Title is the figure title for the model.
func (m Model) Title() string {
	if m == WMB {
		return "Weakened magnetic braking model"
	}
	return "Standard model"
}

// Label is the legend label for the model.
func (m Model) Label() string {
	if m == WMB {
		return "WMB model"
	}
	return "Standard model"
}

// Sun holds the solar reference point drawn on the figures.
type Sun struct {
	Teff float64
	Prot float64
}

// SunShifted is the solar point used with the model histograms.
var SunShifted = Sun{Teff: 5772, Prot: 25.4}
