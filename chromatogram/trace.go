// Package chromatogram reads raw conductance traces from ion chromatograph
// output files and extracts peak heights within elution windows.
package chromatogram

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

const (
	// The instrument emits 60 acquisition cycles per minute.
	CyclesPerMinute = 60.0

	// Instrument files open with a fixed 4-line preamble, then one line of
	// column labels, then whitespace-delimited data rows.
	preambleLines = 4
)

// Point is one acquisition cycle of a trace.
type Point struct {
	Minutes     float64
	Conductance float64
}

// Trace is a single sample's full conductance-versus-time series. It is built
// once at ingestion and not modified afterward.
type Trace struct {
	// Name is the sample name, i.e. the source file's stem.
	Name string

	Points []Point
}

// ReadFile parses one instrument output file into a Trace. The first data
// column carries the specific conductance, prefixed with a ':' that the
// instrument emits; any further columns are ignored. Time is derived from the
// data row position at 60 cycles per minute. A file whose rows cannot be
// parsed, or which contains no data rows, is an error naming the file.
func ReadFile(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, pfx.Err(err)
	}
	defer f.Close()

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	tr := Trace{Name: name}

	scanner := bufio.NewScanner(f)

	// The preamble and the column-label line carry no measurements.
	for i := 0; i < preambleLines+1; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Trace{}, pfx.Err(err)
			}
			return Trace{}, fmt.Errorf("%s: file ends within its %d-line header", path, preambleLines+1)
		}
	}

	lineNum := preambleLines + 1
	for scanner.Scan() {
		lineNum++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		raw := strings.TrimLeft(fields[0], ":")
		cond, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Trace{}, fmt.Errorf("%s line %d: conductance value %q is not numeric", path, lineNum, fields[0])
		}

		tr.Points = append(tr.Points, Point{
			Minutes:     float64(len(tr.Points)) / CyclesPerMinute,
			Conductance: cond,
		})
	}
	if err := scanner.Err(); err != nil {
		return Trace{}, pfx.Err(err)
	}

	if len(tr.Points) == 0 {
		return Trace{}, fmt.Errorf("%s: no data rows after the header", path)
	}

	return tr, nil
}

// ReadDir parses every file in dir whose name ends in ext (e.g. ".txt") and
// returns one Trace per file, in directory order.
func ReadDir(dir, ext string) ([]Trace, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var traces []Trace
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		tr, err := ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		traces = append(traces, tr)
	}

	if len(traces) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", ext, dir)
	}

	return traces, nil
}
