package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamletTheHamster/rotation-percentiles/internal/catalog"
	"github.com/HamletTheHamster/rotation-percentiles/internal/cds"
	"github.com/HamletTheHamster/rotation-percentiles/internal/report"
)

type stubTables struct {
	d   Datasets
	err error
}

func (s stubTables) LoadCKS(context.Context, string) ([]catalog.CKSStar, error) {
	return s.d.CKS, nil
}

func (s stubTables) LoadLAMOST(context.Context, string) ([]catalog.LamostStar, error) {
	return s.d.Lamost, s.err
}

func (s stubTables) LoadMcQuillan2014(context.Context, string) ([]catalog.McQuillanStar, error) {
	return s.d.McQuillan, nil
}

func (s stubTables) LoadModel(_ context.Context, path string) ([]catalog.ModelStar, error) {
	if path == "wmb" {
		return s.d.WMB, nil
	}
	return s.d.Standard, nil
}

type stubFetcher struct{}

func (stubFetcher) FetchTable(context.Context, string, string) (*cds.Table, error) {
	cols := []cds.Column{
		{Start: 1, End: 8, Kind: cds.Int, Label: "KIC"},
		{Start: 10, End: 15, Kind: cds.Float, Label: "Prot"},
	}
	return cds.ReadTable(strings.NewReader("10000001  14.00\n"), cols)
}

// synthetic builds a small but complete set of tables: a LAMOST sample
// with a smooth period trend and a duplicate fainter source, two model
// populations and a CKS table with one pile-up star.
func synthetic() *Datasets {
	var d Datasets

	for i, t := 0, 4300.; t <= 6500; i, t = i+1, t+10 {
		kic := int64(10000000 + i)
		d.Lamost = append(d.Lamost, catalog.LamostStar{
			KIC:     kic,
			DR2Name: fmt.Sprintf("Gaia DR2 %d", i),
			Gmag:    12,
			Teff:    t,
			ETeff:   50,
			Logg:    4.5,
			Prot:    5 + (6500-t)/200,
		})
		if i%2 == 0 {
			d.McQuillan = append(d.McQuillan, catalog.McQuillanStar{KIC: kic})
		}
	}
	// Fainter second source for the first star, and a giant.
	d.Lamost = append(d.Lamost,
		catalog.LamostStar{KIC: 10000000, DR2Name: "Gaia DR2 faint", Gmag: 15, Teff: 4300, ETeff: 80, Logg: 4.5, Prot: 30},
		catalog.LamostStar{KIC: 20000000, DR2Name: "Gaia DR2 giant", Gmag: 10, Teff: 4800, ETeff: 50, Logg: 2.5, Prot: 40},
	)

	for t := 4000.; t <= 7000; t += 5 {
		d.Standard = append(d.Standard,
			catalog.ModelStar{Evo: 1, Teff: t, Period: 8 + (7000-t)/150},
			catalog.ModelStar{Evo: 1, Teff: t + 2, Period: 2 + (7000-t)/400},
		)
		d.WMB = append(d.WMB,
			catalog.ModelStar{Evo: 1, Teff: t, Period: 6 + (7000-t)/200},
			catalog.ModelStar{Evo: 1, Teff: t + 2, Period: 2 + (7000-t)/400},
		)
	}

	d.CKS = []catalog.CKSStar{
		{KepID: 10000001, Teff: 6010, Prot: 14, Logg: 4.4, STeff: 6000},
		{KepID: 10000001, Teff: 6010, Prot: 14, Logg: 4.4, STeff: 6000},
		{KepID: 10000002, Teff: 5200, Prot: 30, Logg: 4.5, STeff: 5200},
		{KepID: 10000003, Teff: 5600, Prot: 20, Logg: 3.8, STeff: 5600},
	}

	return &d
}

func testEnv(t *testing.T, out io.Writer) *Env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEnv(out, t.TempDir(), "test", logger)
}

func TestLoadDatasets(t *testing.T) {
	want := synthetic()
	src := Sources{Standard: "std", WMB: "wmb", KOITable: "t", KOIReadme: "r"}

	d, err := LoadDatasets(context.Background(), stubTables{d: *want}, stubFetcher{}, src, nil)
	require.NoError(t, err)

	assert.Len(t, d.Lamost, len(want.Lamost))
	assert.Equal(t, want.WMB, d.WMB)
	assert.Equal(t, want.Standard, d.Standard)
	require.Len(t, d.KOI, 1)
	assert.Equal(t, int64(10000001), d.KOI[0].KIC)
}

func TestLoadDatasets_NoKOI(t *testing.T) {
	d, err := LoadDatasets(context.Background(), stubTables{d: *synthetic()}, nil, Sources{KOITable: "t"}, nil)
	require.NoError(t, err)
	assert.Empty(t, d.KOI)
}

func TestLoadDatasets_Error(t *testing.T) {
	_, err := LoadDatasets(context.Background(), stubTables{err: errors.New("no such file")}, nil, Sources{}, nil)
	assert.ErrorContains(t, err, "no such file")
}

func TestRunPercentiles(t *testing.T) {
	var out bytes.Buffer
	env := testEnv(t, &out)
	dir := t.TempDir()

	opts := DefaultPercentileOptions(filepath.Join(dir, "percentiles.pdf"))
	opts.Samples = 20
	opts.Seed = 7
	opts.Table = true
	opts.Export = filepath.Join(dir, "bins.csv")
	opts.Replicates = filepath.Join(dir, "replicates.png")
	opts.Formats = []string{"svg"}

	d := synthetic()
	res, err := RunPercentiles(context.Background(), env, d, opts)
	require.NoError(t, err)

	lines := env.Log.Lines()
	require.Len(t, lines, 8)
	assert.Equal(t, "LAMOST unique KIC targets: 222\n", lines[0])
	assert.Equal(t, "LAMOST unique DR2 targets: 223\n", lines[1])
	assert.Equal(t, "LAMOST unique KIC targets: 221\n", lines[2])
	assert.Equal(t, "LAMOST unique DR2 targets: 221\n", lines[3])
	assert.Equal(t, "Median LAMOST Teff error: 50.0\n", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "WMB model chi-squared      : "))
	assert.True(t, strings.HasPrefix(lines[6], "Standard model chi-squared : "))
	assert.True(t, strings.HasPrefix(lines[7], "(Standard-WMB) chi-squared : "))

	assert.Len(t, res.Bins.Centers, 151)
	assert.False(t, math.IsNaN(res.Fit.ChiSqWMB))
	assert.False(t, math.IsNaN(res.Fit.ChiSqStandard))
	assert.InDelta(t, res.Fit.ChiSqStandard-res.Fit.ChiSqWMB, res.Fit.Difference(), 1e-12)
	assert.Equal(t, 1, res.Ridge)
	assert.Contains(t, res.Shifts, "Standard model")
	assert.Contains(t, res.Shifts, "WMB model")

	// No stars this hot.
	assert.True(t, math.IsNaN(res.Bins.Obs90[150]))
	assert.True(t, math.IsNaN(res.Bins.Err90[150]))

	for _, p := range []string{opts.Figure, filepath.Join(dir, "percentiles.svg"), opts.Export, opts.Replicates} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, out.String(), "(Standard-WMB) chi-squared")

	require.NoError(t, env.Log.Write())
	txt, err := os.ReadFile(filepath.Join(env.Log.Dir, "log.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(txt), "# run "+env.RunID+"\n"))
	assert.True(t, strings.HasSuffix(string(txt), lines[7]))
}

func TestRunPercentiles_Seeded(t *testing.T) {
	run := func() report.Bins {
		opts := DefaultPercentileOptions(filepath.Join(t.TempDir(), "percentiles.pdf"))
		opts.Samples = 10
		opts.Seed = 42
		res, err := RunPercentiles(context.Background(), testEnv(t, nil), synthetic(), opts)
		require.NoError(t, err)
		return res.Bins
	}

	a, b := run(), run()
	for i := range a.Obs90 {
		if math.IsNaN(a.Obs90[i]) {
			assert.True(t, math.IsNaN(b.Obs90[i]))
			continue
		}
		assert.Equal(t, a.Obs90[i], b.Obs90[i])
		assert.Equal(t, a.Err10[i], b.Err10[i])
	}
}

func TestRunShifted(t *testing.T) {
	env := testEnv(t, nil)
	dir := t.TempDir()

	res, err := RunShifted(context.Background(), env, synthetic(), ShiftedOptions{
		CKSShift:    111,
		LamostShift: 116,
		FiguresDir:  dir,
		Window:      100,
	})
	require.NoError(t, err)

	require.Len(t, res.Figures, 4)
	for i, name := range []string{
		"std-model-cks-shifted.pdf",
		"wmb-model-cks-shifted.pdf",
		"std-model-lamost-shifted.pdf",
		"wmb-model-lamost-shifted.pdf",
	} {
		assert.Equal(t, filepath.Join(dir, name), res.Figures[i])
		info, err := os.Stat(res.Figures[i])
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.Contains(t, res.Fitted, name)
	}

	assert.Len(t, env.Log.Lines(), 5)
}

func TestRunShifted_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunShifted(ctx, testEnv(t, nil), synthetic(), ShiftedOptions{FiguresDir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPyFloat(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{50, "50.0"},
		{55.5, "55.5"},
		{sum(0.1, 0.2), "0.30000000000000004"},
		{-3, "-3.0"},
		{0, "0.0"},
		{1e-5, "1e-05"},
		{1234567, "1234567.0"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
	} {
		assert.Equal(t, tc.want, pyFloat(tc.in), "%v", tc.in)
	}
}

// sum adds at run time; a constant 0.1 + 0.2 folds to exactly 0.3.
func sum(a, b float64) float64 { return a + b }

func TestFinitePairs(t *testing.T) {
	xy := finitePairs([]float64{1, 2, 3, 4}, []float64{10, math.NaN(), 30, math.Inf(1)})
	assert.Equal(t, [][]float64{{1, 3}, {10, 30}}, xy)
}
