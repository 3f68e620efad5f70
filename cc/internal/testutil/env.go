package testutil

import (
	"context"
	"errors"

	"github.com/inference-sim/rltcp/gym"
)

// Obs builds a 16-field observation vector with the fields tests usually vary.
// Segment size is 100 bytes, ssThresh 1000, and segmentsAcked 1.
func Obs(flow, class, cWnd, throughput, rtt float64) []float64 {
	return []float64{
		flow, class, 0, 0,
		1000, cWnd, 100,
		cWnd, cWnd, 1, 1,
		rtt, rtt, 10, 10,
		throughput,
	}
}

// ErrScriptedFailure is returned by ScriptedEnv at FailAtStep.
var ErrScriptedFailure = errors.New("scripted simulator failure")

// ScriptedEnv replays fixed observation sequences. Episode i's Reset returns
// Episodes[i][0]; each Step returns the next observation, with done set on the last.
// Episodes wrap around when exhausted.
type ScriptedEnv struct {
	Episodes [][][]float64
	// FailAtStep makes the n-th Step call (1-based, across episodes) fail. 0 disables.
	FailAtStep int
	// OnStep runs before every Step with the 1-based global step count.
	OnStep func(step int)

	Resets  int
	Steps   int
	Closes  int
	Actions [][]float64

	episode int
	pos     int
}

func (e *ScriptedEnv) ObservationSpace() gym.Space { return gym.NewBox(gym.ObservationWidth, 0, 1e10, "uint64") }

func (e *ScriptedEnv) ActionSpace() gym.Space { return gym.NewBox(2, 0, 1e10, "uint64") }

func (e *ScriptedEnv) Reset(ctx context.Context) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.episode = e.Resets % len(e.Episodes)
	e.Resets++
	e.pos = 0
	return e.Episodes[e.episode][0], nil
}

func (e *ScriptedEnv) Step(ctx context.Context, action []float64) (gym.StepResult, error) {
	e.Steps++
	if e.OnStep != nil {
		e.OnStep(e.Steps)
	}
	if err := ctx.Err(); err != nil {
		return gym.StepResult{}, err
	}
	if e.FailAtStep > 0 && e.Steps == e.FailAtStep {
		return gym.StepResult{}, ErrScriptedFailure
	}
	e.Actions = append(e.Actions, append([]float64(nil), action...))
	seq := e.Episodes[e.episode]
	if e.pos < len(seq)-1 {
		e.pos++
	}
	return gym.StepResult{
		Obs:    seq[e.pos],
		Reward: 123, // ignored by the loop
		Done:   e.pos == len(seq)-1,
	}, nil
}

func (e *ScriptedEnv) Close() error {
	e.Closes++
	return nil
}
