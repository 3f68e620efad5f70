package cc

import (
	"errors"
	"fmt"
)

// Field positions within an observation vector. The layout is defined by the simulator.
const (
	FieldFlowID = iota
	FieldFlowClass
	FieldSimTimeUs
	FieldNodeID
	FieldSSThresh
	FieldCWnd
	FieldSegmentSize
	FieldBytesInFlightSum
	FieldBytesInFlightAvg
	FieldSegmentsAckedSum
	FieldSegmentsAckedAvg
	FieldAvgRTT
	FieldMinRTT
	FieldAvgInterTx
	FieldAvgInterRx
	FieldThroughput

	// ObservationFields is the minimum observation vector length.
	ObservationFields
)

// ErrObservationLength is returned when a vector is too short to hold every field.
var ErrObservationLength = errors.New("observation vector too short")

// FlowID is the opaque, per-flow stable socket identifier.
type FlowID uint64

// FlowClass is the flow-type hint carried in every observation.
// Class 0 flows are event-based and get the reactive agent; any other class gets the learned agent.
type FlowClass int

// FlowClassEventBased is the class served by the reactive agent.
const FlowClassEventBased FlowClass = 0

// Observation is one parsed simulator observation.
// Vector is the raw slice as received and is what the value model consumes.
type Observation struct {
	Flow             FlowID
	Class            FlowClass
	SimTimeUs        float64
	NodeID           float64
	SSThresh         float64
	CWnd             float64
	SegmentSize      float64
	BytesInFlightSum float64
	BytesInFlightAvg float64
	SegmentsAckedSum float64
	SegmentsAckedAvg float64
	AvgRTT           float64
	MinRTT           float64
	AvgInterTx       float64
	AvgInterRx       float64
	Throughput       float64

	Vector []float64
}

// ParseObservation maps a simulator vector onto named fields.
// The vector is retained without copying.
func ParseObservation(v []float64) (Observation, error) {
	if len(v) < ObservationFields {
		return Observation{}, fmt.Errorf("%w: got %d values, need %d", ErrObservationLength, len(v), ObservationFields)
	}
	return Observation{
		Flow:             FlowID(v[FieldFlowID]),
		Class:            FlowClass(v[FieldFlowClass]),
		SimTimeUs:        v[FieldSimTimeUs],
		NodeID:           v[FieldNodeID],
		SSThresh:         v[FieldSSThresh],
		CWnd:             v[FieldCWnd],
		SegmentSize:      v[FieldSegmentSize],
		BytesInFlightSum: v[FieldBytesInFlightSum],
		BytesInFlightAvg: v[FieldBytesInFlightAvg],
		SegmentsAckedSum: v[FieldSegmentsAckedSum],
		SegmentsAckedAvg: v[FieldSegmentsAckedAvg],
		AvgRTT:           v[FieldAvgRTT],
		MinRTT:           v[FieldMinRTT],
		AvgInterTx:       v[FieldAvgInterTx],
		AvgInterRx:       v[FieldAvgInterRx],
		Throughput:       v[FieldThroughput],
		Vector:           v,
	}, nil
}

// Telemetry returns the 12-value telemetry block (ssThresh through throughput) in field order.
func (o Observation) Telemetry() []float64 {
	return []float64{
		o.SSThresh, o.CWnd, o.SegmentSize,
		o.BytesInFlightSum, o.BytesInFlightAvg,
		o.SegmentsAckedSum, o.SegmentsAckedAvg,
		o.AvgRTT, o.MinRTT,
		o.AvgInterTx, o.AvgInterRx,
		o.Throughput,
	}
}
