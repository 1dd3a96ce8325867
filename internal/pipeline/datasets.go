// Package pipeline runs the two figure pipelines: the bootstrapped
// rotation-period percentiles and the shifted samples over the model
// populations.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/HamletTheHamster/rotation-percentiles/internal/catalog"
)

// Tables reads the local input tables. *catalog.Store implements it.
type Tables interface {
	LoadCKS(ctx context.Context, path string) ([]catalog.CKSStar, error)
	LoadLAMOST(ctx context.Context, path string) ([]catalog.LamostStar, error)
	LoadMcQuillan2014(ctx context.Context, path string) ([]catalog.McQuillanStar, error)
	LoadModel(ctx context.Context, path string) ([]catalog.ModelStar, error)
}

// Sources names every input of a run. An empty KOITable skips the CDS
// download.
type Sources struct {
	CKS       string
	Lamost    string
	McQuillan string
	Standard  string
	WMB       string

	KOITable  string
	KOIReadme string
}

// Datasets are the tables as loaded, before any deduplication or cuts.
// Standard and WMB hold main-sequence model stars only.
type Datasets struct {
	CKS       []catalog.CKSStar
	Lamost    []catalog.LamostStar
	McQuillan []catalog.McQuillanStar
	KOI       []catalog.KOIRotator
	Standard  []catalog.ModelStar
	WMB       []catalog.ModelStar
}

// LoadDatasets reads every source concurrently. The first failure cancels
// the remaining loads.
func LoadDatasets(
	ctx context.Context,
	tables Tables,
	fetch catalog.TableFetcher,
	src Sources,
	logger *slog.Logger,
) (
	*Datasets, error,
) {

	if logger == nil {
		logger = slog.Default()
	}

	var d Datasets
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.CKS, err = tables.LoadCKS(gctx, src.CKS)
		logger.Debug("loaded table", "table", "cks", "path", src.CKS, "rows", len(d.CKS))
		return err
	})
	g.Go(func() (err error) {
		d.Lamost, err = tables.LoadLAMOST(gctx, src.Lamost)
		logger.Debug("loaded table", "table", "lamost", "path", src.Lamost, "rows", len(d.Lamost))
		return err
	})
	g.Go(func() (err error) {
		d.McQuillan, err = tables.LoadMcQuillan2014(gctx, src.McQuillan)
		logger.Debug("loaded table", "table", "mcquillan2014", "path", src.McQuillan, "rows", len(d.McQuillan))
		return err
	})
	g.Go(func() (err error) {
		d.Standard, err = tables.LoadModel(gctx, src.Standard)
		logger.Debug("loaded table", "table", string(catalog.Standard), "path", src.Standard, "rows", len(d.Standard))
		return err
	})
	g.Go(func() (err error) {
		d.WMB, err = tables.LoadModel(gctx, src.WMB)
		logger.Debug("loaded table", "table", string(catalog.WMB), "path", src.WMB, "rows", len(d.WMB))
		return err
	})
	if fetch != nil && src.KOITable != "" {
		g.Go(func() (err error) {
			d.KOI, err = catalog.LoadKOI(gctx, fetch, src.KOITable, src.KOIReadme)
			logger.Debug("loaded table", "table", "mcquillan2013", "url", src.KOITable, "rows", len(d.KOI))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading datasets: %w", err)
	}

	return &d, nil
}
