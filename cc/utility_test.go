package cc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inference-sim/rltcp/cc/internal/testutil"
)

func TestUtility_KnownValues(t *testing.T) {
	testutil.AssertFloat64Equal(t, "unit inputs", 0, Utility(1, 1), 1e-12)
	testutil.AssertFloat64Equal(t, "T=e", 0.01, Utility(math.E, 1), 1e-12)
	testutil.AssertFloat64Equal(t, "R=e", 0.001, Utility(1, math.E), 1e-12)
	testutil.AssertFloat64Equal(t, "both", 0.01*math.Log(5e5)+0.001*math.Log(4e4), Utility(5e5, 4e4), 1e-12)
}

// TestUtility_StrictlyIncreasing verifies the utility grows with throughput at fixed RTT
// and with RTT at fixed throughput.
func TestUtility_StrictlyIncreasing(t *testing.T) {
	values := []float64{1e-3, 0.5, 1, 2, 100, 1e6, 1e9}
	for _, fixed := range values {
		for i := 1; i < len(values); i++ {
			lo, hi := values[i-1], values[i]
			assert.Greater(t, Utility(hi, fixed), Utility(lo, fixed), "throughput %v -> %v at rtt %v", lo, hi, fixed)
			assert.Greater(t, Utility(fixed, hi), Utility(fixed, lo), "rtt %v -> %v at throughput %v", lo, hi, fixed)
		}
	}
}

func TestUtility_NonPositiveInputs(t *testing.T) {
	// GIVEN zero throughput THEN the result is -Inf
	assert.True(t, math.IsInf(Utility(0, 1), -1))
	// GIVEN a negative RTT THEN the result is NaN
	assert.True(t, math.IsNaN(Utility(1, -1)))

	obs := Observation{Throughput: 0, AvgRTT: 10}
	assert.False(t, TelemetryPositive(obs))
	obs.Throughput = 1
	assert.True(t, TelemetryPositive(obs))
	obs.AvgRTT = -1
	assert.False(t, TelemetryPositive(obs))
}
