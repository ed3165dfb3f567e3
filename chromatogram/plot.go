package chromatogram

import (
	"bytes"
	"os"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	// The plots exist for manual inspection of peak shape; nothing downstream
	// reads them back. 1920x1440 matches the lab's previous 300 dpi output.
	DefaultPlotWidth  = 1920
	DefaultPlotHeight = 1440

	// PlotXMaxMinutes fixes the x axis so every chromatogram in a batch is
	// directly comparable. Runs are 25 minutes on this instrument.
	PlotXMaxMinutes = 25.0
)

// WritePlot renders the trace as a PNG line plot of conductance versus time
// and writes it to path.
func WritePlot(tr Trace, path string, width, height int) error {
	xVals := make([]float64, 0, len(tr.Points))
	yVals := make([]float64, 0, len(tr.Points))
	for _, pt := range tr.Points {
		xVals = append(xVals, pt.Minutes)
		yVals = append(yVals, pt.Conductance)
	}

	graph := chart.Chart{
		Title:  tr.Name,
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "Time (min)",
			Range: &chart.ContinuousRange{Min: 0, Max: PlotXMaxMinutes},
		},
		YAxis: chart.YAxis{
			Name: "Specific Conductance (µS/cm)",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xVals,
				YValues: yVals,
			},
		},
	}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return pfx.Err(err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return pfx.Err(err)
	}

	return nil
}
