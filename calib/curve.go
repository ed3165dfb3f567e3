// Package calib fits linear calibration curves that map instrument response
// (peak height) to concentration.
package calib

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Curve is an ordinary least-squares line: concentration = Slope*peak +
// Intercept. It is fit once per anion and immutable afterward.
type Curve struct {
	Slope     float64
	Intercept float64
}

// Fit computes the least-squares line through the (peak, concentration)
// pairs. It fails rather than return a meaningless line: the inputs must be
// the same length, at least two points, and the peaks must not all be equal
// (a vertical or undefined slope means the instrument response never varied
// across the standards).
func Fit(peaks, concentrations []float64) (Curve, error) {
	if len(peaks) != len(concentrations) {
		return Curve{}, fmt.Errorf("calibration: %d peak heights but %d known concentrations", len(peaks), len(concentrations))
	}
	if len(peaks) < 2 {
		return Curve{}, fmt.Errorf("calibration: need at least 2 standards, got %d", len(peaks))
	}

	distinct := false
	for _, p := range peaks[1:] {
		if p != peaks[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return Curve{}, fmt.Errorf("calibration is degenerate: all %d standards produced peak height %g", len(peaks), peaks[0])
	}

	intercept, slope := stat.LinearRegression(peaks, concentrations, nil, false)

	return Curve{Slope: slope, Intercept: intercept}, nil
}

// Predict returns the concentration implied by a peak height.
func (c Curve) Predict(peak float64) float64 {
	return c.Slope*peak + c.Intercept
}
