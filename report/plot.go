// Package report renders the trace collected during a run: one line plot per telemetry
// series, plus a plain-text summary for stdout.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/inference-sim/rltcp/cc/trace"
)

// ValidFormats is the set of recognized plot file formats.
var ValidFormats = map[string]bool{"pdf": true, "png": true, "svg": true}

// PlotReporter writes <Dir>/<series>.<Format> for every trace series.
type PlotReporter struct {
	Dir    string
	Format string
	Width  vg.Length
	Height vg.Length
}

// NewPlotReporter creates a reporter writing into dir. An empty format defaults to pdf.
func NewPlotReporter(dir, format string) (*PlotReporter, error) {
	if format == "" {
		format = "pdf"
	}
	if !ValidFormats[format] {
		return nil, fmt.Errorf("unknown plot format %q; valid: pdf, png, svg", format)
	}
	if dir == "" {
		dir = "."
	}
	return &PlotReporter{Dir: dir, Format: format, Width: 10 * vg.Inch, Height: 4 * vg.Inch}, nil
}

// Path returns the file a series is rendered to.
func (p *PlotReporter) Path(series string) string {
	return filepath.Join(p.Dir, series+"."+p.Format)
}

// Report renders every non-empty series. Empty series are skipped.
func (p *PlotReporter) Report(tr *trace.Recorder) error {
	if tr == nil {
		return nil
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	written := 0
	for _, name := range trace.SeriesNames {
		values := tr.Series(name)
		if len(values) == 0 {
			continue
		}
		if err := p.render(name, values); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
		written++
	}
	logrus.Infof("Wrote %d plot(s) to %s", written, p.Dir)
	return nil
}

func (p *PlotReporter) render(name string, values []float64) error {
	pl := plot.New()
	pl.Title.Text = "Learning Performance"
	pl.X.Label.Text = "step"
	pl.Y.Label.Text = trace.SeriesUnits[name]
	pl.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	pl.Add(line)
	pl.Legend.Add(name, line)
	pl.Legend.Top = true

	return pl.Save(p.Width, p.Height, p.Path(name))
}
