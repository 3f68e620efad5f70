package trace

import "fmt"

// Config controls trace collection behavior.
type Config struct {
	Every    int // record every Every-th step; values < 1 mean every step
	Capacity int // keep only the most recent Capacity samples per series; 0 = unbounded
}

// Validate returns an error if the config is invalid.
func (c Config) Validate() error {
	if c.Every < 0 {
		return fmt.Errorf("trace sampling interval must be non-negative, got %d", c.Every)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("trace capacity must be non-negative, got %d", c.Capacity)
	}
	return nil
}

// Recorder accumulates telemetry series for end-of-run reporting.
type Recorder struct {
	Config  Config
	series  map[string]*buffer
	samples int
}

// NewRecorder creates a Recorder ready for sampling.
func NewRecorder(config Config) *Recorder {
	series := make(map[string]*buffer, len(SeriesNames))
	for _, name := range SeriesNames {
		series[name] = &buffer{capacity: config.Capacity}
	}
	return &Recorder{Config: config, series: series}
}

// Sample appends telemetry (one value per SeriesNames entry, in order) if step falls
// on the sampling interval. Returns true if the sample was kept.
func (r *Recorder) Sample(step int, telemetry []float64) bool {
	every := r.Config.Every
	if every < 1 {
		every = 1
	}
	if step%every != 0 {
		return false
	}
	r.Record(telemetry)
	return true
}

// Record appends telemetry unconditionally. Extra values are ignored; missing
// trailing values leave their series untouched.
func (r *Recorder) Record(telemetry []float64) {
	for i, name := range SeriesNames {
		if i >= len(telemetry) {
			break
		}
		r.series[name].append(telemetry[i])
	}
	r.samples++
}

// Series returns a copy of the named series, oldest first. Unknown names return nil.
func (r *Recorder) Series(name string) []float64 {
	b, ok := r.series[name]
	if !ok {
		return nil
	}
	return b.values()
}

// Samples returns the number of samples recorded, including any evicted from a bounded buffer.
func (r *Recorder) Samples() int {
	return r.samples
}
