// Package store persists the per-step learning transitions of a run so the trajectory
// can be inspected after the simulator is gone.
package store

import "context"

// Transition is one completed select/step/update cycle.
type Transition struct {
	RunID     string    `json:"run_id"`
	Episode   int       `json:"episode"`
	Step      int       `json:"step"`
	Flow      uint64    `json:"flow"`
	Class     int       `json:"class"`
	Agent     string    `json:"agent"`
	Obs       []float64 `json:"obs"`
	NextObs   []float64 `json:"next_obs"`
	Requested int       `json:"requested"`
	Realized  int       `json:"realized"`
	Reward    float64   `json:"reward"`
	Target    float64   `json:"target"`
	Done      bool      `json:"done"`
}

// Store defines persistence operations for run transitions.
type Store interface {
	Init(ctx context.Context) error
	SaveTransition(ctx context.Context, t Transition) error
	// Transitions returns a run's transitions ordered by (episode, step).
	Transitions(ctx context.Context, runID string) ([]Transition, error)
}
