package cc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SimulatorUsesSeedDirectly(t *testing.T) {
	p := NewPartitionedRNG(12)
	want := rand.New(rand.NewSource(12)).Int63()
	assert.Equal(t, want, p.ForSubsystem(SubsystemSimulator).Int63())
	assert.Equal(t, int64(12), p.Seed())
}

func TestPartitionedRNG_Deterministic(t *testing.T) {
	a := NewPartitionedRNG(42).ForSubsystem(SubsystemModel(7))
	b := NewPartitionedRNG(42).ForSubsystem(SubsystemModel(7))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestPartitionedRNG_SubsystemsIsolated(t *testing.T) {
	p := NewPartitionedRNG(42)
	assert.NotEqual(t, p.ForSubsystem(SubsystemModel(1)).Int63(), p.ForSubsystem(SubsystemModel(2)).Int63())
	assert.NotEqual(t, SubsystemModel(1), SubsystemExplorer(1))

	// THEN repeated lookups return the same stream
	assert.Same(t, p.ForSubsystem(SubsystemExplorer(3)), p.ForSubsystem(SubsystemExplorer(3)))
}
