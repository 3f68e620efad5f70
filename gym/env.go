// Package gym defines the simulator collaborator consumed by the congestion-control
// loop: a step/reset environment that emits per-flow observation vectors and accepts
// window commands.
//
// Two implementations live here:
//   - SyntheticEnv: an in-process bottleneck-link simulator for offline runs and tests
//   - HTTPEnv: a client for a simulator bridge speaking JSON over HTTP
//
// This package has no dependency on cc/; it exchanges plain float vectors.
package gym

import (
	"context"
	"errors"
	"fmt"
)

// ErrEnvClosed is returned by Reset/Step after Close.
var ErrEnvClosed = errors.New("environment is closed")

// Space describes the shape and bounds of an observation or action vector.
type Space struct {
	Kind  string    `json:"kind" yaml:"kind"` // "box" or "discrete"
	Shape []int     `json:"shape,omitempty" yaml:"shape,omitempty"`
	Low   []float64 `json:"low,omitempty" yaml:"low,omitempty"`
	High  []float64 `json:"high,omitempty" yaml:"high,omitempty"`
	N     int       `json:"n,omitempty" yaml:"n,omitempty"` // number of choices for discrete spaces
	Dtype string    `json:"dtype,omitempty" yaml:"dtype,omitempty"`
}

// Dim returns the flat width of a box space, or N for a discrete space.
func (s Space) Dim() int {
	if s.Kind == "discrete" {
		return s.N
	}
	d := 1
	for _, n := range s.Shape {
		d *= n
	}
	if len(s.Shape) == 0 {
		return 0
	}
	return d
}

// String renders the space the way it is logged at startup.
func (s Space) String() string {
	if s.Kind == "discrete" {
		return fmt.Sprintf("Discrete(%d)", s.N)
	}
	return fmt.Sprintf("Box(shape=%v, dtype=%s)", s.Shape, s.Dtype)
}

// NewBox returns a box space of the given width with uniform bounds.
func NewBox(dim int, low, high float64, dtype string) Space {
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	for i := range lo {
		lo[i] = low
		hi[i] = high
	}
	return Space{Kind: "box", Shape: []int{dim}, Low: lo, High: hi, Dtype: dtype}
}

// StepResult is the simulator response to one submitted action.
type StepResult struct {
	Obs    []float64 `json:"obs"`
	Reward float64   `json:"reward"`
	Done   bool      `json:"done"`
	Info   string    `json:"info"`
}

// Env is the step/reset simulator contract.
// Calls are synchronous and block until the simulator answers; Close must be
// called exactly once on every exit path.
type Env interface {
	ObservationSpace() Space
	ActionSpace() Space
	Reset(ctx context.Context) ([]float64, error)
	Step(ctx context.Context, action []float64) (StepResult, error)
	Close() error
}
