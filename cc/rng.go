package cc

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Subsystem names for PartitionedRNG.
const (
	// SubsystemSimulator drives the synthetic simulator. Uses the master seed directly
	// so --seed matches the simulator seed of a remote run.
	SubsystemSimulator = "simulator"
)

// SubsystemModel returns the subsystem name for the value model of a flow.
func SubsystemModel(flow FlowID) string {
	return fmt.Sprintf("model_%d", uint64(flow))
}

// SubsystemExplorer returns the subsystem name for the explorer of a flow.
func SubsystemExplorer(flow FlowID) string {
	return fmt.Sprintf("explorer_%d", uint64(flow))
}

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem, so a
// new flow appearing mid-run never perturbs the random stream of another flow.
//
// Derivation formula:
//   - For SubsystemSimulator: uses seed directly
//   - For all other subsystems: seed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := p.seed
	if name != SubsystemSimulator {
		derivedSeed = p.seed ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
