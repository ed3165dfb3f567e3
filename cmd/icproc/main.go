// icproc processes one directory of Metrohm ion chromatograph output files:
// it plots every trace, calibrates against the std1-std4 standards, computes
// Cl, NO3, and SO4 concentrations for every sample, and writes an .xlsx
// report named after the data directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hydrogeochem/icproc"
	"github.com/hydrogeochem/icproc/buildinfo"
	"github.com/hydrogeochem/icproc/calib"
	"github.com/hydrogeochem/icproc/chromatogram"
	"github.com/hydrogeochem/icproc/report"
)

func main() {
	var dir, ext, out, csvOut string
	var plots, version bool
	var plotWidth, plotHeight int

	flag.StringVar(&dir, "dir", ".", "Directory holding the instrument output files for one batch.")
	flag.StringVar(&ext, "ext", ".txt", "Extension of the instrument output files.")
	flag.StringVar(&out, "out", "", "(Optional) Report path. Defaults to <dir basename>.xlsx inside the data directory.")
	flag.StringVar(&csvOut, "csv", "", "(Optional) Also write the report as CSV to this path.")
	flag.BoolVar(&plots, "plots", true, "Render a PNG chromatogram per sample?")
	flag.IntVar(&plotWidth, "width", chromatogram.DefaultPlotWidth, "(Optional) Plot pixel width.")
	flag.IntVar(&plotHeight, "height", chromatogram.DefaultPlotHeight, "(Optional) Plot pixel height.")
	flag.BoolVar(&version, "version", false, "Print build information and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Get())
		return
	}

	if err := run(dir, ext, out, csvOut, plots, plotWidth, plotHeight); err != nil {
		log.Fatalln(err)
	}
}

func run(dir, ext, out, csvOut string, plots bool, plotWidth, plotHeight int) error {
	traces, err := chromatogram.ReadDir(dir, ext)
	if err != nil {
		return err
	}
	log.Printf("Read %d traces from %s\n", len(traces), dir)

	if plots {
		for _, tr := range traces {
			if err := chromatogram.WritePlot(tr, filepath.Join(dir, tr.Name+".png"), plotWidth, plotHeight); err != nil {
				return err
			}
		}
		log.Printf("Rendered %d chromatogram plots\n", len(traces))
	}

	curves, err := fitCurves(traces)
	if err != nil {
		return err
	}
	for _, anion := range icproc.Anions {
		c := curves[anion.Name]
		log.Printf("%s calibration: concentration = %g*peak + %g\n", anion.Name, c.Slope, c.Intercept)
	}

	rows, err := quantify(traces, curves)
	if err != nil {
		return err
	}
	report.Sort(rows)

	if out == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		out = filepath.Join(dir, filepath.Base(abs)+".xlsx")
	}
	if err := report.WriteXLSX(rows, out); err != nil {
		return err
	}
	log.Printf("Wrote report for %d samples to %s\n", len(rows), out)

	if csvOut != "" {
		if err := report.WriteCSV(rows, csvOut); err != nil {
			return err
		}
		log.Printf("Wrote CSV report to %s\n", csvOut)
	}

	return nil
}

// fitCurves builds one calibration curve per anion from the four standard
// samples. Every standard must be present in the batch before any curve is
// fit; a missing one aborts the run by name.
func fitCurves(traces []chromatogram.Trace) (map[string]calib.Curve, error) {
	byName := make(map[string]chromatogram.Trace, len(traces))
	for _, tr := range traces {
		byName[tr.Name] = tr
	}

	standards := make([]chromatogram.Trace, 0, len(icproc.StandardNames))
	for _, name := range icproc.StandardNames {
		std, exists := byName[name]
		if !exists {
			return nil, fmt.Errorf("calibration standard %q not found among the input files", name)
		}
		standards = append(standards, std)
	}

	curves := make(map[string]calib.Curve, len(icproc.Anions))
	for _, anion := range icproc.Anions {
		peaks := make([]float64, 0, len(standards))
		for _, std := range standards {
			peak, err := chromatogram.PeakHeight(std, anion.Window)
			if err != nil {
				return nil, err
			}
			peaks = append(peaks, peak)
		}

		curve, err := calib.Fit(peaks, icproc.StandardConcentrations)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", anion.Name, err)
		}
		curves[anion.Name] = curve
	}

	return curves, nil
}

// quantify applies the calibration curves to every trace, standards included,
// and flags predictions that fall below the lowest standard.
func quantify(traces []chromatogram.Trace, curves map[string]calib.Curve) ([]report.Row, error) {
	rows := make([]report.Row, 0, len(traces))
	for _, tr := range traces {
		row := report.Row{Sample: tr.Name}

		var err error
		if row.ClPeak, row.ClPPM, row.ClMmol, row.ClComment, err = measure(tr, icproc.Chloride, curves); err != nil {
			return nil, err
		}
		if row.NO3Peak, row.NO3PPM, row.NO3Mmol, row.NO3Comment, err = measure(tr, icproc.Nitrate, curves); err != nil {
			return nil, err
		}
		if row.SO4Peak, row.SO4PPM, row.SO4Mmol, row.SO4Comment, err = measure(tr, icproc.Sulfate, curves); err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func measure(tr chromatogram.Trace, anion icproc.Anion, curves map[string]calib.Curve) (peak, ppm, mmol float64, comment string, err error) {
	peak, err = chromatogram.PeakHeight(tr, anion.Window)
	if err != nil {
		return 0, 0, 0, "", err
	}

	ppm = curves[anion.Name].Predict(peak)
	mmol = anion.MmolPerL(ppm)

	if icproc.BelowDetection(ppm) {
		comment = icproc.BelowDetectionComment
	}

	return peak, ppm, mmol, comment, nil
}
