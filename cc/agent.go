package cc

import (
	"errors"

	"github.com/inference-sim/rltcp/gym"
)

// ErrSpaceMismatch is returned when an observation does not fit the configured observation space.
var ErrSpaceMismatch = errors.New("observation does not match observation space")

// Agent is a per-flow control unit.
// Implementations are created once per flow by the Registry and live for the registry's lifetime.
type Agent interface {
	// Configure stores the observation and action space descriptors. Idempotent.
	Configure(obSpace, acSpace gym.Space) error
	// SelectAction produces the next control decision for obs, given the reward, done flag and
	// info returned with the previous step.
	SelectAction(obs Observation, lastReward float64, done bool, info string) (Action, error)
	// Update applies one online learning step associating obs with target for the realized action.
	Update(obs Observation, target float64, realized ActionCode) error
	// Kind names the variant ("newreno", "dqlearning").
	Kind() string
}

// ValueAgent is implemented by agents that maintain a value-function approximation.
// The loop uses it to bootstrap the learning target; agents without it learn nothing.
type ValueAgent interface {
	Agent
	// QValues returns one value estimate per action code at obs.
	QValues(obs Observation) ([]float64, error)
}
