// Package report assembles the per-sample results of a run into one table
// and exports it.
package report

import (
	"os"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Row holds everything reported for one sample: the raw peak heights, the
// calibrated concentrations in ppm and mmol/L, and the below-detection
// comments (empty when the value is quantifiable).
type Row struct {
	Sample string `csv:"Sample"`

	ClPeak  float64 `csv:"Cl_peak"`
	NO3Peak float64 `csv:"NO3_peak"`
	SO4Peak float64 `csv:"SO4_peak"`

	ClPPM  float64 `csv:"Cl_ppm"`
	NO3PPM float64 `csv:"NO3_ppm"`
	SO4PPM float64 `csv:"SO4_ppm"`

	ClMmol  float64 `csv:"Cl_mmol"`
	NO3Mmol float64 `csv:"NO3_mmol"`
	SO4Mmol float64 `csv:"SO4_mmol"`

	ClComment  string `csv:"Comments (Cl)"`
	NO3Comment string `csv:"Comments (NO3)"`
	SO4Comment string `csv:"Comments (SO4)"`
}

// columns is the header row of the exported table, matching the lab's
// long-standing report layout. The sample name occupies an unlabeled index
// column to its left.
var columns = []string{
	"Cl_peak", "NO3_peak", "SO4_peak",
	"Cl_ppm", "NO3_ppm", "SO4_ppm",
	"Cl_mmol", "NO3_mmol", "SO4_mmol",
	"Comments (Cl)", "Comments (NO3)", "Comments (SO4)",
}

// Sort orders the rows alphabetically by sample name, regardless of the
// order in which the files were discovered.
func Sort(rows []Row) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sample < rows[j].Sample })
}

// WriteXLSX writes the rows as a single-sheet spreadsheet: one header row,
// one row per sample, sample names in the first (unlabeled) column.
func WriteXLSX(rows []Row, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, col := range columns {
		// Column A is the sample-name index, so headers start at B1.
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return pfx.Err(err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return pfx.Err(err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Sample,
			row.ClPeak, row.NO3Peak, row.SO4Peak,
			row.ClPPM, row.NO3PPM, row.SO4PPM,
			row.ClMmol, row.NO3Mmol, row.SO4Mmol,
			row.ClComment, row.NO3Comment, row.SO4Comment,
		}

		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return pfx.Err(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return pfx.Err(err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteCSV writes the same table as a CSV file, for downstream tooling that
// prefers plain text over a spreadsheet.
func WriteCSV(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return pfx.Err(err)
	}

	return nil
}
