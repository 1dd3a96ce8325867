package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/HamletTheHamster/rotation-percentiles/internal/cds"
)

// LoadCKS reads the merged California-Kepler Survey table.
func (s *Store) LoadCKS(
	ctx context.Context,
	path string,
) (
	[]CKSStar, error,
) {

	var stars []CKSStar
	cols := []string{
		bigint("kepid"),
		double("cks_Teff"),
		double("d21_prot"),
		double("p20_cks_slogg"),
		double("p20_cks_steff"),
	}

	err := s.query(ctx, path, cols, func(rows *sql.Rows) error {
		var (
			kepid                       sql.NullInt64
			teff, prot, logg, spocsTeff sql.NullFloat64
		)
		if err := rows.Scan(&kepid, &teff, &prot, &logg, &spocsTeff); err != nil {
			return err
		}
		stars = append(stars, CKSStar{
			KepID:   kepid.Int64,
			Teff:    orNaN(teff),
			Prot:    orNaN(prot),
			Logg:    orNaN(logg),
			STeff:   orNaN(spocsTeff),
			McqProt: math.NaN(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading CKS: %w", err)
	}

	return stars, nil
}

// LoadLAMOST reads the LAMOST–Kepler cross-match, from Parquet or CSV.
func (s *Store) LoadLAMOST(
	ctx context.Context,
	path string,
) (
	[]LamostStar, error,
) {

	var stars []LamostStar
	cols := []string{
		bigint("KIC"),
		varchar("DR2Name"),
		double("Gmag"),
		double("Teff_lam"),
		double("e_Teff_lam"),
		double("logg_lam"),
		double("feh_lam"),
		double("Prot"),
	}

	err := s.query(ctx, path, cols, func(rows *sql.Rows) error {
		var (
			kic                                  sql.NullInt64
			dr2                                  sql.NullString
			gmag, teff, eTeff, logg, feh, period sql.NullFloat64
		)
		if err := rows.Scan(&kic, &dr2, &gmag, &teff, &eTeff, &logg, &feh, &period); err != nil {
			return err
		}
		stars = append(stars, LamostStar{
			KIC:     kic.Int64,
			DR2Name: dr2.String,
			Gmag:    orNaN(gmag),
			Teff:    orNaN(teff),
			ETeff:   orNaN(eTeff),
			Logg:    orNaN(logg),
			FeH:     orNaN(feh),
			Prot:    orNaN(period),
			Ro:      math.NaN(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading LAMOST: %w", err)
	}

	return stars, nil
}

// LoadMcQuillan2014 reads the KIC identifiers of the McQuillan et al.
// (2014) rotation table.
func (s *Store) LoadMcQuillan2014(
	ctx context.Context,
	path string,
) (
	[]McQuillanStar, error,
) {

	var stars []McQuillanStar
	err := s.query(ctx, path, []string{bigint("mcq_KIC")}, func(rows *sql.Rows) error {
		var kic sql.NullInt64
		if err := rows.Scan(&kic); err != nil {
			return err
		}
		stars = append(stars, McQuillanStar{KIC: kic.Int64})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading McQuillan 2014: %w", err)
	}

	return stars, nil
}

// LoadModel reads a synthetic population and keeps its main-sequence
// (evo == 1) stars.
func (s *Store) LoadModel(
	ctx context.Context,
	path string,
) (
	[]ModelStar, error,
) {

	var stars []ModelStar
	cols := []string{bigint("evo"), double("Teff"), double("period")}

	err := s.query(ctx, path, cols, func(rows *sql.Rows) error {
		var (
			evo          sql.NullInt64
			teff, period sql.NullFloat64
		)
		if err := rows.Scan(&evo, &teff, &period); err != nil {
			return err
		}
		stars = append(stars, ModelStar{
			Evo:    int(evo.Int64),
			Teff:   orNaN(teff),
			Period: orNaN(period),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}

	return MainSequence(stars), nil
}

// TableFetcher retrieves a CDS table and its ReadMe.
type TableFetcher interface {
	FetchTable(ctx context.Context, tableURL, readmeURL string) (*cds.Table, error)
}

// LoadKOI downloads the McQuillan et al. (2013) KOI rotation table. Its
// columns are prefixed with "mcq_" before use.
func LoadKOI(
	ctx context.Context,
	f TableFetcher,
	tableURL, readmeURL string,
) (
	[]KOIRotator, error,
) {

	tbl, err := f.FetchTable(ctx, tableURL, readmeURL)
	if err != nil {
		return nil, fmt.Errorf("loading KOI periods: %w", err)
	}
	tbl = tbl.WithPrefix("mcq_")

	kic, ok := tbl.Float("mcq_KIC")
	if !ok {
		return nil, fmt.Errorf("loading KOI periods: no mcq_KIC column")
	}
	prot, ok := tbl.Float("mcq_Prot")
	if !ok {
		return nil, fmt.Errorf("loading KOI periods: no mcq_Prot column")
	}

	out := make([]KOIRotator, 0, tbl.Rows)
	for i := range kic {
		if math.IsNaN(kic[i]) {
			continue
		}
		out = append(out, KOIRotator{KIC: int64(kic[i]), Prot: prot[i]})
	}

	return out, nil
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
