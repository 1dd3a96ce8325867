package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/HamletTheHamster/rotation-percentiles/internal/rotation"
)

// Bins is the per-bin result of the percentiles run.
type Bins struct {
	Centers []float64

	Obs90, Err90 []float64
	Obs10, Err10 []float64

	Std90, Std10 []float64
	WMB90, WMB10 []float64
}

// columns lists the export column names in order.
func (b Bins) columns() []string {
	return []string{
		"teff", "lamost_p90", "e_lamost_p90", "lamost_p10", "e_lamost_p10",
		"std_p90", "std_p10", "wmb_p90", "wmb_p10",
	}
}

func (b Bins) values() [][]float64 {
	return [][]float64{
		b.Centers, b.Obs90, b.Err90, b.Obs10, b.Err10,
		b.Std90, b.Std10, b.WMB90, b.WMB10,
	}
}

// Validate checks that every column has one value per center.
func (b Bins) Validate() error {
	n := len(b.Centers)
	for i, col := range b.values() {
		if len(col) != n {
			return fmt.Errorf("report: column %s has %d values, want %d", b.columns()[i], len(col), n)
		}
	}
	return nil
}

// RenderBins writes the per-bin table to w.
func RenderBins(
	w io.Writer,
	b Bins,
) (
	error,
) {

	if err := b.Validate(); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(b.columns()))
	for _, c := range b.columns() {
		header = append(header, c)
	}
	t.AppendHeader(header)

	cols := b.values()
	for i := range b.Centers {
		row := make(table.Row, len(cols))
		row[0] = strconv.FormatFloat(cols[0][i], 'f', 0, 64)
		for j := 1; j < len(cols); j++ {
			row[j] = formatFloat(cols[j][i])
		}
		t.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, len(cols))
	for j := range cols {
		configs[j] = table.ColumnConfig{Number: j + 1, Align: text.AlignRight}
	}
	t.SetColumnConfigs(configs)

	t.Render()
	return nil
}

// RenderFit writes the χ² comparison, and the fitted temperature offsets
// when any are given, to w.
func RenderFit(
	w io.Writer,
	fit rotation.ModelFit,
	shifts map[string]float64,
) {

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"quantity", "value"})
	t.AppendRow(table.Row{"χ² WMB", formatFloat(fit.ChiSqWMB)})
	t.AppendRow(table.Row{"χ² standard", formatFloat(fit.ChiSqStandard)})
	t.AppendRow(table.Row{"χ² standard − WMB", formatFloat(fit.Difference())})

	if len(shifts) > 0 {
		t.AppendSeparator()
		for _, name := range sortedKeys(shifts) {
			t.AppendRow(table.Row{"ΔTeff " + name + " [K]", formatFloat(shifts[name])})
		}
	}

	t.Render()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "–"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
