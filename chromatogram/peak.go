package chromatogram

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/hydrogeochem/icproc"
)

// PeakHeight returns the maximum conductance observed while the trace's time
// index lies within the window. Both window bounds are inclusive. A trace
// with no points in the window (e.g. an acquisition that stopped early) is an
// error rather than a silent zero.
func PeakHeight(tr Trace, w icproc.Window) (float64, error) {
	vals := make([]float64, 0, len(tr.Points))
	for _, pt := range tr.Points {
		if w.Contains(pt.Minutes) {
			vals = append(vals, pt.Conductance)
		}
	}

	if len(vals) == 0 {
		return 0, fmt.Errorf("insufficient data in window %s for sample %s", w, tr.Name)
	}

	max, err := stats.Max(vals)
	if err != nil {
		return 0, fmt.Errorf("peak height for sample %s in window %s: %w", tr.Name, w, err)
	}

	return max, nil
}
