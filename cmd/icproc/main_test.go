package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	// Data row positions for the synthetic peaks: 60 rows per minute, so
	// these land at 6, 10, and 14 minutes, inside the Cl, NO3, and SO4
	// windows respectively.
	clPeakRow  = 360
	no3PeakRow = 600
	so4PeakRow = 840

	traceRows = 960 // a 16-minute run
	baseline  = 1.0
)

// writeRunFile emits a synthetic instrument file with a flat baseline and one
// spike per anion window.
func writeRunFile(t *testing.T, dir, name string, clPeak, no3Peak, so4Peak float64) {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("Metrohm 850 Professional IC\n")
	sb.WriteString("Column: Metrosep A Supp 5\n")
	sb.WriteString("Eluent: carbonate/bicarbonate\n")
	sb.WriteString("Recording interval: 1 s\n")
	sb.WriteString("SpCond\tAux\n")

	for i := 0; i < traceRows; i++ {
		v := baseline
		switch i {
		case clPeakRow:
			v = clPeak
		case no3PeakRow:
			v = no3Peak
		case so4PeakRow:
			v = so4Peak
		}
		fmt.Fprintf(&sb, ":%g\t0.0\n", v)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".txt"), []byte(sb.String()), 0o644))
}

// writeStandards emits std1-std4 with peak heights of 10x the known
// concentrations, so each calibration collapses to concentration = peak/10
// with zero residual.
func writeStandards(t *testing.T, dir string) {
	t.Helper()

	for _, v := range []struct {
		name string
		peak float64
	}{
		{"std1", 25},
		{"std2", 50},
		{"std3", 100},
		{"std4", 200},
	} {
		writeRunFile(t, dir, v.name, v.peak, v.peak, v.peak)
	}
}

func cellFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()

	raw, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	v, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err, "cell %s = %q", cell, raw)

	return v
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeStandards(t, dir)

	// spring_A's Cl peak matches std2's, so its Cl_ppm must come out as 5.
	writeRunFile(t, dir, "spring_A", 50, 120, 300)

	// blank_low never rises above baseline, so every anion reads below std1.
	writeRunFile(t, dir, "blank_low", baseline, baseline, baseline)

	out := filepath.Join(dir, "batch.xlsx")
	require.NoError(t, run(dir, ".txt", out, "", false, 0, 0))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	// Alphabetical row order: blank_low, spring_A, std1..std4.
	for i, expected := range []string{"blank_low", "spring_A", "std1", "std2", "std3", "std4"} {
		got, err := f.GetCellValue(sheet, fmt.Sprintf("A%d", i+2))
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}

	// spring_A: Cl_ppm = 5, no Cl comment, mmol conversion applied.
	assert.InDelta(t, 5.0, cellFloat(t, f, sheet, "E3"), 1e-6)
	assert.InDelta(t, 5.0/35.453, cellFloat(t, f, sheet, "H3"), 1e-6)
	clComment, err := f.GetCellValue(sheet, "K3")
	require.NoError(t, err)
	assert.Empty(t, clComment)

	// blank_low: flagged for all three anions.
	for _, cell := range []string{"K2", "L2", "M2"} {
		comment, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, "below std1", comment)
	}

	// std1 predicts exactly at the detection limit and is not flagged.
	assert.InDelta(t, 2.5, cellFloat(t, f, sheet, "E4"), 1e-6)
	std1Comment, err := f.GetCellValue(sheet, "K4")
	require.NoError(t, err)
	assert.Empty(t, std1Comment)
}

func TestRunDefaultReportName(t *testing.T) {
	dir := t.TempDir()
	writeStandards(t, dir)

	require.NoError(t, run(dir, ".txt", "", "", false, 0, 0))

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, filepath.Base(abs)+".xlsx"))
	assert.NoError(t, err)
}

func TestRunCSVExport(t *testing.T) {
	dir := t.TempDir()
	writeStandards(t, dir)

	csvOut := filepath.Join(dir, "batch.csv")
	require.NoError(t, run(dir, ".txt", filepath.Join(dir, "batch.xlsx"), csvOut, false, 0, 0))

	body, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Cl_ppm")
	assert.Contains(t, string(body), "std4")
}

func TestRunMissingStandard(t *testing.T) {
	dir := t.TempDir()
	writeStandards(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "std4.txt")))

	err := run(dir, ".txt", filepath.Join(dir, "batch.xlsx"), "", false, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "std4")
}

func TestRunDegenerateCalibration(t *testing.T) {
	dir := t.TempDir()

	// Four standards with identical response: the fit has no defined slope.
	for _, name := range []string{"std1", "std2", "std3", "std4"} {
		writeRunFile(t, dir, name, 50, 50, 50)
	}

	err := run(dir, ".txt", filepath.Join(dir, "batch.xlsx"), "", false, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate")
}

func TestRunShortTrace(t *testing.T) {
	dir := t.TempDir()
	writeStandards(t, dir)

	// A 3-minute acquisition never reaches the Cl window.
	var sb strings.Builder
	sb.WriteString("Metrohm 850 Professional IC\nColumn\nEluent\nInterval\nSpCond\n")
	for i := 0; i < 180; i++ {
		sb.WriteString(":1.0\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aborted.txt"), []byte(sb.String()), 0o644))

	err := run(dir, ".txt", filepath.Join(dir, "batch.xlsx"), "", false, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aborted")
}
