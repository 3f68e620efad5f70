package cc

import (
	"math"

	"github.com/inference-sim/rltcp/gym"
)

// NewReno is the reactive controller used for event-based flows: slow start below
// ssThresh, additive increase above it, ssThresh pinned to half the bytes in flight.
// It keeps no learned state; Update is a no-op.
type NewReno struct {
	obSpace gym.Space
	acSpace gym.Space
}

// NewNewReno creates a reactive agent.
func NewNewReno() *NewReno {
	return &NewReno{}
}

func (n *NewReno) Kind() string { return "newreno" }

func (n *NewReno) Configure(obSpace, acSpace gym.Space) error {
	n.obSpace = obSpace
	n.acSpace = acSpace
	return nil
}

// SelectAction computes the next [ssThresh, cWnd] from the current window state.
func (n *NewReno) SelectAction(obs Observation, _ float64, _ bool, _ string) (Action, error) {
	cWnd := obs.CWnd
	seg := obs.SegmentSize
	acked := obs.SegmentsAckedSum

	newCWnd := 1.0
	if cWnd < obs.SSThresh {
		// slow start
		if acked >= 1 {
			newCWnd = cWnd + seg
		}
	} else if acked > 0 {
		// congestion avoidance
		adder := 1.0
		if cWnd > 0 {
			adder = math.Max(1.0, math.Trunc(seg*seg/cWnd))
		}
		newCWnd = cWnd + adder
	}
	newSSThresh := math.Trunc(math.Max(2*seg, obs.BytesInFlightSum/2))

	return Action{
		Code:     InferAction(cWnd, newCWnd),
		SSThresh: newSSThresh,
		CWnd:     newCWnd,
	}, nil
}

func (n *NewReno) Update(Observation, float64, ActionCode) error { return nil }
