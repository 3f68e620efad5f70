package qnet

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rltcp/cc"
)

func newTestNetwork(t *testing.T, seed int64, cfg cc.ModelConfig) *Network {
	t.Helper()
	n, err := New(4, 3, cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return n
}

func TestNew_RejectsBadArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := New(0, 3, cc.DefaultModelConfig(), rng)
	assert.Error(t, err)
	_, err = New(4, 0, cc.DefaultModelConfig(), rng)
	assert.Error(t, err)
	_, err = New(4, 3, cc.ModelConfig{LearningRate: 0, HiddenUnits: 4}, rng)
	assert.Error(t, err)
	_, err = New(4, 3, cc.DefaultModelConfig(), nil)
	assert.Error(t, err)
}

func TestPredict_Shape(t *testing.T) {
	n := newTestNetwork(t, 1, cc.DefaultModelConfig())
	in, actions := n.Dims()
	assert.Equal(t, 4, in)
	assert.Equal(t, 3, actions)

	out, err := n.Predict([][]float64{{1, 2, 3, 4}, {0, 0, 0, 0}})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0], 3)
	assert.Len(t, out[1], 3)

	_, err = n.Predict([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

// TestNew_DeterministicPerSeed verifies identical seeds produce identical predictions.
func TestNew_DeterministicPerSeed(t *testing.T) {
	x := [][]float64{{536, 5360, 40_000, 1e6}}
	a, err := newTestNetwork(t, 7, cc.DefaultModelConfig()).Predict(x)
	require.NoError(t, err)
	b, err := newTestNetwork(t, 7, cc.DefaultModelConfig()).Predict(x)
	require.NoError(t, err)
	c, err := newTestNetwork(t, 8, cc.DefaultModelConfig()).Predict(x)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPredict_LargeInputsStayFinite(t *testing.T) {
	n := newTestNetwork(t, 3, cc.DefaultModelConfig())
	out, err := n.Predict([][]float64{{4e9, 1e10, -1e10, 0}})
	require.NoError(t, err)
	for _, v := range out[0] {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

// TestFit_ConvergesTowardTarget verifies repeated fits pull the chosen action's value
// toward the target and leave the error smaller than it started.
func TestFit_ConvergesTowardTarget(t *testing.T) {
	cfg := cc.ModelConfig{LearningRate: 0.005, HiddenUnits: 16, ClipDelta: 50}
	n := newTestNetwork(t, 11, cfg)
	x := []float64{1000, 2000, 50, 10}
	const target = 5.0

	before, err := n.Predict([][]float64{x})
	require.NoError(t, err)
	for i := 0; i < 2000; i++ {
		require.NoError(t, n.Fit(x, target, 1))
	}
	after, err := n.Predict([][]float64{x})
	require.NoError(t, err)

	assert.Less(t, math.Abs(after[0][1]-target), math.Abs(before[0][1]-target))
	assert.InDelta(t, target, after[0][1], 0.5)
}

func TestFit_RejectsBadInput(t *testing.T) {
	n := newTestNetwork(t, 1, cc.DefaultModelConfig())
	assert.Error(t, n.Fit([]float64{1, 2, 3, 4}, 1, 3), "action out of range")
	assert.Error(t, n.Fit([]float64{1, 2, 3, 4}, 1, -1), "negative action")
	assert.Error(t, n.Fit([]float64{1, 2}, 1, 0), "wrong width")
	assert.Error(t, n.Fit([]float64{1, 2, 3, 4}, math.NaN(), 0), "NaN target")
	assert.Error(t, n.Fit([]float64{1, 2, 3, 4}, math.Inf(-1), 0), "infinite target")
}

func TestSquash(t *testing.T) {
	got := squash([]float64{0, math.E - 1, -(math.E - 1)})
	assert.Equal(t, 0.0, got[0])
	assert.InDelta(t, 0.1, got[1], 1e-12)
	assert.InDelta(t, -0.1, got[2], 1e-12)
}

func TestRegistered(t *testing.T) {
	// GIVEN the package init has run THEN cc can build networks
	require.NotNil(t, cc.NewValueModelFunc)
	m, err := cc.NewValueModelFunc(cc.ObservationFields, cc.NumActions, cc.DefaultModelConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.IsType(t, &Network{}, m)
}
