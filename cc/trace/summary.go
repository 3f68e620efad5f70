package trace

// SeriesSummary aggregates one telemetry series.
type SeriesSummary struct {
	Name  string
	Count int
	Mean  float64
	Min   float64
	Max   float64
	Last  float64
}

// TraceSummary aggregates statistics from a Recorder.
type TraceSummary struct {
	Samples int
	Series  []SeriesSummary // in SeriesNames order
}

// Summarize computes per-series statistics over the retained samples.
// Safe for nil or empty recorders (returns zero-value fields).
func Summarize(r *Recorder) *TraceSummary {
	summary := &TraceSummary{}
	if r == nil {
		return summary
	}
	summary.Samples = r.Samples()
	for _, name := range SeriesNames {
		values := r.Series(name)
		s := SeriesSummary{Name: name, Count: len(values)}
		if len(values) > 0 {
			s.Min, s.Max = values[0], values[0]
			total := 0.0
			for _, v := range values {
				total += v
				if v < s.Min {
					s.Min = v
				}
				if v > s.Max {
					s.Max = v
				}
			}
			s.Mean = total / float64(len(values))
			s.Last = values[len(values)-1]
		}
		summary.Series = append(summary.Series, s)
	}
	return summary
}
