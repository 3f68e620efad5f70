package cc

import (
	"fmt"
	"math/rand"
)

// ValueModel is the value-function approximator behind the learned agent.
type ValueModel interface {
	// Predict returns one row of per-action value estimates for each input row.
	Predict(batch [][]float64) ([][]float64, error)
	// Fit moves the estimate for action at x toward target with a single-sample update.
	Fit(x []float64, target float64, action int) error
}

// ModelConfig groups value-model hyperparameters.
type ModelConfig struct {
	LearningRate float64 // SGD step size (must be > 0)
	HiddenUnits  int     // hidden layer width (must be > 0)
	ClipDelta    float64 // TD-error clip bound; 0 disables clipping
}

// DefaultModelConfig returns the hyperparameters used when none are configured.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		LearningRate: 0.001,
		HiddenUnits:  24,
		ClipDelta:    50,
	}
}

// Validate returns an error if the config is invalid.
func (c ModelConfig) Validate() error {
	if !(c.LearningRate > 0) {
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if c.HiddenUnits <= 0 {
		return fmt.Errorf("hidden units must be positive, got %d", c.HiddenUnits)
	}
	if c.ClipDelta < 0 {
		return fmt.Errorf("clip delta must be non-negative, got %v", c.ClipDelta)
	}
	return nil
}

// NewValueModelFunc constructs the ValueModel used by DQLearning agents.
// Set by cc/qnet's init(); production code imports cc/qnet, and tests in package cc
// import it for side effects.
var NewValueModelFunc func(inputDim, numActions int, cfg ModelConfig, rng *rand.Rand) (ValueModel, error)
