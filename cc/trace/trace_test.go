package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func telemetry(base float64) []float64 {
	out := make([]float64, len(SeriesNames))
	for i := range out {
		out[i] = base + float64(i)
	}
	return out
}

func TestRecorder_SampleInterval(t *testing.T) {
	tests := []struct {
		name  string
		every int
		want  int
	}{
		{name: "every step", every: 1, want: 10},
		{name: "zero means every step", every: 0, want: 10},
		{name: "every third step", every: 3, want: 4}, // steps 0, 3, 6, 9
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(Config{Every: tt.every})
			kept := 0
			for step := 0; step < 10; step++ {
				if r.Sample(step, telemetry(float64(step))) {
					kept++
				}
			}
			assert.Equal(t, tt.want, kept)
			assert.Equal(t, tt.want, r.Samples())
			assert.Len(t, r.Series("cWnd"), tt.want)
		})
	}
}

func TestRecorder_SeriesFollowNameOrder(t *testing.T) {
	r := NewRecorder(Config{})
	r.Record(telemetry(100))

	for i, name := range SeriesNames {
		assert.Equal(t, []float64{100 + float64(i)}, r.Series(name), name)
	}
	assert.Nil(t, r.Series("unknown"))
}

func TestRecorder_BoundedKeepsMostRecent(t *testing.T) {
	// GIVEN a capacity of 3
	r := NewRecorder(Config{Capacity: 3})

	// WHEN 5 samples are recorded
	for i := 0; i < 5; i++ {
		r.Record(telemetry(float64(i * 10)))
	}

	// THEN only the last 3 remain, oldest first
	assert.Equal(t, []float64{20, 30, 40}, r.Series("ssThresh"))
	assert.Equal(t, 5, r.Samples())
}

func TestRecorder_SeriesIsACopy(t *testing.T) {
	r := NewRecorder(Config{})
	r.Record(telemetry(1))
	s := r.Series("ssThresh")
	s[0] = 999
	assert.Equal(t, []float64{1}, r.Series("ssThresh"))
}

func TestRecorder_ShortTelemetry(t *testing.T) {
	r := NewRecorder(Config{})
	r.Record([]float64{1, 2})
	assert.Len(t, r.Series("ssThresh"), 1)
	assert.Len(t, r.Series("cWnd"), 1)
	assert.Empty(t, r.Series("throughput"))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Every: -1}.Validate())
	assert.Error(t, Config{Capacity: -1}.Validate())
}

func TestSeriesUnits_CoverEverySeries(t *testing.T) {
	for _, name := range SeriesNames {
		assert.NotEmpty(t, SeriesUnits[name], name)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("nil recorder", func(t *testing.T) {
		s := Summarize(nil)
		require.NotNil(t, s)
		assert.Equal(t, 0, s.Samples)
		assert.Empty(t, s.Series)
	})

	t.Run("empty recorder", func(t *testing.T) {
		s := Summarize(NewRecorder(Config{}))
		require.Len(t, s.Series, len(SeriesNames))
		for _, series := range s.Series {
			assert.Equal(t, 0, series.Count)
		}
	})

	t.Run("statistics", func(t *testing.T) {
		r := NewRecorder(Config{})
		for _, base := range []float64{4, 1, 7} {
			r.Record(telemetry(base))
		}
		s := Summarize(r)
		assert.Equal(t, 3, s.Samples)
		first := s.Series[0]
		assert.Equal(t, "ssThresh", first.Name)
		assert.Equal(t, 3, first.Count)
		assert.Equal(t, 4.0, first.Mean)
		assert.Equal(t, 1.0, first.Min)
		assert.Equal(t, 7.0, first.Max)
		assert.Equal(t, 7.0, first.Last)
	})
}
