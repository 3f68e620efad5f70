package cc

import "math"

// Utility scores a (throughput, RTT) pair: 0.01·ln(T) + 0.001·ln(R).
//
// Both inputs must be strictly positive. The function does not guard this: a zero
// input yields -Inf and a negative input yields NaN, following math.Log.
func Utility(throughput, rtt float64) float64 {
	return 0.01*math.Log(throughput) + 0.001*math.Log(rtt)
}

// TelemetryPositive reports whether obs satisfies Utility's precondition.
func TelemetryPositive(obs Observation) bool {
	return obs.Throughput > 0 && obs.AvgRTT > 0
}
