package cc

import (
	"fmt"
	"math/rand"
)

// Explorer optionally overrides the learned agent's greedy choice.
type Explorer interface {
	// Explore returns an action code and true to override the greedy choice, or false to keep it.
	Explore() (ActionCode, bool)
}

// Greedy never explores.
type Greedy struct{}

func (Greedy) Explore() (ActionCode, bool) { return 0, false }

// EpsilonGreedy picks a uniformly random action with probability rate.
type EpsilonGreedy struct {
	rate float64
	rng  *rand.Rand
}

// NewEpsilonGreedy creates an EpsilonGreedy explorer drawing from rng.
func NewEpsilonGreedy(rate float64, rng *rand.Rand) *EpsilonGreedy {
	return &EpsilonGreedy{rate: rate, rng: rng}
}

func (e *EpsilonGreedy) Explore() (ActionCode, bool) {
	if e.rate <= 0 || e.rng.Float64() >= e.rate {
		return 0, false
	}
	return ActionCode(e.rng.Intn(NumActions)), true
}

// ValidExplorers is the set of recognized explorer names.
var ValidExplorers = map[string]bool{"": true, "greedy": true, "epsilon-greedy": true}

// IsValidExplorer returns true if name is a recognized explorer.
func IsValidExplorer(name string) bool {
	return ValidExplorers[name]
}

// NewExplorer creates an explorer by name. An empty string defaults to Greedy.
// Panics on unrecognized names.
func NewExplorer(name string, rate float64, rng *rand.Rand) Explorer {
	if !IsValidExplorer(name) {
		panic(fmt.Sprintf("unknown explorer %q", name))
	}
	switch name {
	case "", "greedy":
		return Greedy{}
	case "epsilon-greedy":
		return NewEpsilonGreedy(rate, rng)
	default:
		panic(fmt.Sprintf("unhandled explorer %q", name))
	}
}
