// Package trace provides the per-step telemetry buffers collected during a run.
// It has no dependency on cc/ and stores plain float series.
package trace

// SeriesNames lists the recorded telemetry series in observation field order.
var SeriesNames = []string{
	"ssThresh",
	"cWnd",
	"segmentSize",
	"bytesInFlightSum",
	"bytesInFlightAvg",
	"segmentsAckedSum",
	"segmentsAckedAvg",
	"avgRtt",
	"minRtt",
	"avgInterTx",
	"avgInterRx",
	"throughput",
}

// SeriesUnits maps each series to the unit used for axis labels.
var SeriesUnits = map[string]string{
	"ssThresh":         "byte",
	"cWnd":             "byte",
	"segmentSize":      "byte",
	"bytesInFlightSum": "byte",
	"bytesInFlightAvg": "byte",
	"segmentsAckedSum": "segment",
	"segmentsAckedAvg": "segment",
	"avgRtt":           "us",
	"minRtt":           "us",
	"avgInterTx":       "us",
	"avgInterRx":       "us",
	"throughput":       "byte/s",
}

// buffer is an append-only series, optionally bounded to the most recent capacity values.
type buffer struct {
	capacity int
	data     []float64
	start    int // index of the oldest value once the ring has wrapped
}

func (b *buffer) append(v float64) {
	if b.capacity <= 0 || len(b.data) < b.capacity {
		b.data = append(b.data, v)
		return
	}
	b.data[b.start] = v
	b.start = (b.start + 1) % b.capacity
}

// values returns the series oldest first.
func (b *buffer) values() []float64 {
	out := make([]float64, 0, len(b.data))
	out = append(out, b.data[b.start:]...)
	out = append(out, b.data[:b.start]...)
	return out
}
