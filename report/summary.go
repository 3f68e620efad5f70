package report

import (
	"fmt"
	"io"

	"github.com/inference-sim/rltcp/cc"
	"github.com/inference-sim/rltcp/cc/trace"
)

// PrintSummary writes the end-of-run summary.
func PrintSummary(w io.Writer, result cc.RunResult, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Run Summary ===")
	fmt.Fprintf(w, "Run ID              : %s\n", result.RunID)
	fmt.Fprintf(w, "Episodes completed  : %d\n", result.Episodes)
	fmt.Fprintf(w, "Steps               : %d\n", result.Steps)
	fmt.Fprintf(w, "Flows (agents)      : %d\n", result.Agents)
	fmt.Fprintf(w, "Interrupted         : %t\n", result.Interrupted)
	if result.Steps > 0 {
		fmt.Fprintf(w, "Improved steps      : %d (%.1f%%)\n", result.Improved,
			100*float64(result.Improved)/float64(result.Steps))
		fmt.Fprintf(w, "Not improved steps  : %d\n", result.NotImproved)
	}
	if summary == nil || summary.Samples == 0 {
		return
	}
	fmt.Fprintf(w, "Trace samples       : %d\n", summary.Samples)
	fmt.Fprintf(w, "%-18s %14s %14s %14s %14s\n", "series", "mean", "min", "max", "last")
	for _, s := range summary.Series {
		if s.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "%-18s %14.2f %14.2f %14.2f %14.2f\n", s.Name, s.Mean, s.Min, s.Max, s.Last)
	}
}
