package report

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/HamletTheHamster/rotation-percentiles/internal/rotation"
)

// ErrExportFormat is returned for an export path that is neither .csv nor
// .xlsx.
var ErrExportFormat = errors.New("report: export path must end in .csv or .xlsx")

// Frame returns the bins as a gota DataFrame.
func (b Bins) Frame() (dataframe.DataFrame, error) {
	if err := b.Validate(); err != nil {
		return dataframe.DataFrame{}, err
	}

	names := b.columns()
	cols := b.values()
	ss := make([]series.Series, len(cols))
	for i, c := range cols {
		ss[i] = series.New(c, series.Float, names[i])
	}

	df := dataframe.New(ss...)
	return df, df.Err
}

// Export writes the bins to path, as CSV or as an XLSX workbook with a
// second sheet holding the χ² comparison.
func Export(
	path string,
	b Bins,
	fit rotation.ModelFit,
) (
	error,
) {

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, b)
	case ".xlsx":
		return writeXLSX(path, b, fit)
	default:
		return fmt.Errorf("%w: %s", ErrExportFormat, path)
	}
}

func writeCSV(
	path string,
	b Bins,
) (
	error,
) {

	df, err := b.Frame()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

const (
	binsSheet = "percentiles"
	fitSheet  = "chi2"
)

func writeXLSX(
	path string,
	b Bins,
	fit rotation.ModelFit,
) (
	error,
) {

	if err := b.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", binsSheet); err != nil {
		return err
	}

	for i, header := range b.columns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(binsSheet, cell, header); err != nil {
			return err
		}
		_ = f.SetColWidth(binsSheet, columnName(i+1), columnName(i+1), 14)
	}

	for j, col := range b.values() {
		for i, v := range col {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			// Empty cells stand in for NaN, which XLSX cannot hold.
			if math.IsNaN(v) {
				continue
			}
			if err := f.SetCellFloat(binsSheet, cell, v, -1, 64); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(fitSheet); err != nil {
		return err
	}
	rows := [][]any{
		{"model", "chi2"},
		{"WMB", cellValue(fit.ChiSqWMB)},
		{"standard", cellValue(fit.ChiSqStandard)},
		{"standard-WMB", cellValue(fit.Difference())},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(fitSheet, cell, &r); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func cellValue(v float64) any {
	if math.IsNaN(v) {
		return ""
	}
	return v
}

func columnName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}
