package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/HamletTheHamster/rotation-percentiles/internal/rotation"
)

func TestRunDir(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, filepath.Join("plots", "2024-Mar-05", "14:07:09: lamost"), RunDir("plots", "lamost", now))
}

func TestLog(t *testing.T) {
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "run")
	l := NewLog(&out, dir)

	l.Println("LAMOST unique KIC targets:", 42)
	l.Printf("Median LAMOST Teff error: %g", 55.5)

	assert.Equal(t, "LAMOST unique KIC targets: 42\nMedian LAMOST Teff error: 55.5\n", out.String())
	assert.Len(t, l.Lines(), 2)

	require.NoError(t, l.Write())
	got, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(got))
}

func TestLog_Header(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	l := NewLog(&out, dir)
	l.Header = "# run 1234"
	l.Println("Median LAMOST Teff error:", "50.0")

	assert.Equal(t, "Median LAMOST Teff error: 50.0\n", out.String())
	assert.Len(t, l.Lines(), 1)

	require.NoError(t, l.Write())
	got, err := os.ReadFile(filepath.Join(dir, "log.txt"))
	require.NoError(t, err)
	assert.Equal(t, "# run 1234\nMedian LAMOST Teff error: 50.0\n", string(got))
}

func sampleBins() Bins {
	nan := math.NaN()
	return Bins{
		Centers: []float64{4000, 4020, 4040},
		Obs90:   []float64{nan, 30.5, 31},
		Err90:   []float64{nan, 1.5, 1.25},
		Obs10:   []float64{nan, 8, 9},
		Err10:   []float64{nan, 0.5, 0.25},
		Std90:   []float64{40, 39, 38},
		Std10:   []float64{10, 10, 9},
		WMB90:   []float64{41, 40, 39},
		WMB10:   []float64{11, 11, 10},
	}
}

func TestBins_Validate(t *testing.T) {
	b := sampleBins()
	assert.NoError(t, b.Validate())

	b.WMB10 = b.WMB10[:2]
	assert.ErrorContains(t, b.Validate(), "wmb_p10")
}

func TestRenderBins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBins(&buf, sampleBins()))

	s := buf.String()
	assert.Contains(t, strings.ToLower(s), "p90")
	assert.Contains(t, s, "4020")
	assert.Contains(t, s, "30.50")
	assert.Contains(t, s, "–")
}

func TestRenderFit(t *testing.T) {
	var buf bytes.Buffer
	RenderFit(&buf, rotation.ModelFit{ChiSqWMB: 10, ChiSqStandard: 25}, map[string]float64{"lamost": 118.2, "cks": 109})

	s := buf.String()
	assert.Contains(t, s, "15.00")
	assert.Less(t, strings.Index(s, "ΔTeff cks"), strings.Index(s, "ΔTeff lamost"))
}

func TestExport_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "percentiles.csv")
	require.NoError(t, Export(path, sampleBins(), rotation.ModelFit{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f)
	require.NoError(t, df.Err)
	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, sampleBins().columns(), df.Names())
	assert.Equal(t, []float64{40, 39, 38}, df.Col("std_p90").Float())
}

func TestExport_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "percentiles.xlsx")
	fit := rotation.ModelFit{ChiSqWMB: 3, ChiSqStandard: 7}
	require.NoError(t, Export(path, sampleBins(), fit))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{binsSheet, fitSheet}, f.GetSheetList())

	v, err := f.GetCellValue(binsSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "30.5", v)

	v, err = f.GetCellValue(binsSheet, "B2")
	require.NoError(t, err)
	assert.Empty(t, v)

	v, err = f.GetCellValue(fitSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "4", v)
}

func TestExport_UnknownFormat(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "x.json"), sampleBins(), rotation.ModelFit{})
	assert.ErrorIs(t, err, ErrExportFormat)
}
