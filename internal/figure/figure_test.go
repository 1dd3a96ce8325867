package figure

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestBuildData_DropsNonFinite(t *testing.T) {
	xy := buildData([][]float64{
		{1, 2, math.NaN(), 4, 5},
		{10, math.Inf(1), 30, 40},
	})
	require.Len(t, xy, 2)
	assert.Equal(t, 1., xy[0].X)
	assert.Equal(t, 40., xy[1].Y)
}

func TestTicks(t *testing.T) {
	ts := ticks([]float64{5000, 6500}, 500)

	var major []float64
	for _, tk := range ts {
		if tk.Label != "" {
			major = append(major, tk.Value)
		}
	}
	assert.Equal(t, []float64{5000, 5500, 6000, 6500}, major)
	assert.Len(t, ts, 4+3*3)
}

func TestHist2D(t *testing.T) {
	x := []float64{5000, 5005, 5019.9, 5020, 5100, math.NaN()}
	y := []float64{1, 1.2, 1.4, 1, 3, 2}

	h, err := NewHist2D(x, y, 20, 0.5)
	require.NoError(t, err)

	c, r := h.Dims()
	assert.Equal(t, 6, c)
	assert.Equal(t, 5, r)

	assert.Equal(t, 1., h.Z(1, 0))
	assert.Equal(t, 1., h.Z(5, 4))

	assert.Equal(t, 5010., h.X(0))
	assert.Equal(t, 1.25, h.Y(0))
	assert.True(t, math.IsNaN(h.Z(2, 2)), "empty cells are transparent")
	assert.Equal(t, 3., h.Z(0, 0))
}

func TestHist2D_Errors(t *testing.T) {
	_, err := NewHist2D([]float64{1}, []float64{1}, 0, 1)
	assert.Error(t, err)

	_, err = NewHist2D([]float64{math.NaN()}, []float64{1}, 1, 1)
	assert.Error(t, err)
}

func TestBlues_LightToDark(t *testing.T) {
	cmap, err := blues(100)
	require.NoError(t, err)
	assert.Equal(t, 0., cmap.Min())
	assert.Equal(t, 100., cmap.Max())

	lum := func(v float64) float64 {
		c, err := cmap.At(v)
		require.NoError(t, err)
		r, g, b, _ := c.RGBA()
		return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	}
	assert.Greater(t, lum(0), lum(50))
	assert.Greater(t, lum(50), lum(100))
}

func curves() PercentileCurves {
	centers := []float64{4500, 5000, 5500, 6000, 6500, 7000}
	return PercentileCurves{
		Centers:   centers,
		Obs90:     []float64{40, 35, 30, 20, math.NaN(), math.NaN()},
		Obs10:     []float64{10, 8, 6, 4, math.NaN(), math.NaN()},
		Std90:     []float64{42, 36, 28, 15, 6, 2},
		Std10:     []float64{12, 9, 7, 3, 1, 1},
		WMB90:     []float64{42, 36, 26, 12, 5, 2},
		WMB10:     []float64{12, 9, 6, 3, 1, 1},
		RidgeTeff: []float64{5900, 6100},
		RidgeProt: []float64{15, 10},
	}
}

func TestPercentiles_Save(t *testing.T) {
	p, err := Percentiles(curves())
	require.NoError(t, err)

	assert.Equal(t, 4500., p.X.Min)
	assert.Equal(t, 7000., p.X.Max)
	// The period axis follows the data.
	assert.Equal(t, 1., p.Y.Min)
	assert.Equal(t, 42., p.Y.Max)

	dir := t.TempDir()
	path := filepath.Join(dir, "percentiles.pdf")
	require.NoError(t, SaveAll(p, 6.4*vg.Inch, 4.8*vg.Inch, path, "png"))

	for _, name := range []string{"percentiles.pdf", "percentiles.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestModelComparison_Save(t *testing.T) {
	var mt, mp []float64
	for i := range 2000 {
		mt = append(mt, 5000+float64(i%75)*20)
		mp = append(mp, float64(i%100)/2)
	}

	fig, err := ModelComparison(Comparison{
		Title:       "Standard model",
		Panel:       "a",
		ModelTeff:   mt,
		ModelPeriod: mp,
		SampleLabel: "California–Kepler Survey",
		SampleTeff:  []float64{5500, 5800, math.NaN()},
		SampleProt:  []float64{20, 15, 3},
		Sun:         Sun{Teff: 5772, Prot: 25.4},
	})
	require.NoError(t, err)
	assert.Equal(t, "a", fig.Panel)
	assert.Equal(t, 5000., fig.Main.X.Min)
	assert.Equal(t, 50., fig.Main.Y.Max)
	assert.Equal(t, "N stars", fig.ColorBar.Y.Label.Text)

	path := filepath.Join(t.TempDir(), "nested", "std-model-cks-shifted.pdf")
	require.NoError(t, Save(fig, 6*vg.Inch, 5*vg.Inch, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSave_UnknownFormat(t *testing.T) {
	p, err := Percentiles(curves())
	require.NoError(t, err)
	assert.Error(t, Save(p, vg.Inch, vg.Inch, filepath.Join(t.TempDir(), "x.bogus")))
}

func TestReplicateSpread(t *testing.T) {
	centers := []float64{5000, 5200, 5400}
	reps := [][]float64{
		{10, 11, 12, 13, 30},
		{math.NaN(), math.NaN()},
		{8, 9, 9.5, math.NaN()},
	}

	p, err := ReplicateSpread("90th percentile", centers, reps)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "replicates.svg")
	require.NoError(t, Save(p, 4*vg.Inch, 3*vg.Inch, path))

	_, err = ReplicateSpread("", centers, reps[:2])
	assert.Error(t, err)

	_, err = ReplicateSpread("", []float64{5000}, [][]float64{{math.NaN()}})
	assert.Error(t, err)
}
