// Package icproc holds the instrument-specific constants for processing
// Metrohm ion chromatograph output: the elution windows and molar masses of
// the anions of interest, and the calibration standard naming convention.
package icproc

import "fmt"

// Window is a closed elution-time interval, in minutes. Both bounds are
// included when extracting a peak.
type Window struct {
	Start float64
	End   float64
}

func (w Window) Contains(minutes float64) bool {
	return minutes >= w.Start && minutes <= w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%g, %g] min", w.Start, w.End)
}

// Anion describes one analyte: where its peak elutes on this instrument and
// the molar mass used to convert ppm to mmol/L.
type Anion struct {
	Name      string
	Window    Window
	MolarMass float64
}

// MmolPerL converts a concentration in ppm (mg/L) to mmol/L.
func (a Anion) MmolPerL(ppm float64) float64 {
	return ppm / a.MolarMass
}

// The three anions quantified by this pipeline. The windows are specific to
// the lab's column and flow rate; they are not derived from the data.
var (
	Chloride = Anion{Name: "Cl", Window: Window{Start: 5, End: 7}, MolarMass: 35.453}
	Nitrate  = Anion{Name: "NO3", Window: Window{Start: 9, End: 11}, MolarMass: 62.0049}
	Sulfate  = Anion{Name: "SO4", Window: Window{Start: 12.5, End: 15}, MolarMass: 96.06}
)

// Anions lists the analytes in report-column order.
var Anions = []Anion{Chloride, Nitrate, Sulfate}

// StandardNames are the sample stems that every run must contain. Each
// standard carries the same known concentration for all three anions.
var StandardNames = []string{"std1", "std2", "std3", "std4"}

// StandardConcentrations are the known concentrations (ppm) of the standards,
// in the same order as StandardNames.
var StandardConcentrations = []float64{2.5, 5, 10, 20}

const (
	// DetectionLimit is the concentration of the lowest calibration standard.
	// Predictions strictly below it are flagged; a prediction of exactly this
	// value is not.
	DetectionLimit = 2.5

	// BelowDetectionComment is attached to a result that falls under
	// DetectionLimit.
	BelowDetectionComment = "below std1"
)

// BelowDetection reports whether a predicted concentration falls under the
// lowest calibration standard.
func BelowDetection(ppm float64) bool {
	return ppm < DetectionLimit
}
