package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rltcp/store"
)

func smallRunConfig(t *testing.T) RunConfig {
	t.Helper()
	cfg := DefaultRunConfig()
	cfg.Iterations = 2
	cfg.Simulator.SimTime = 2
	cfg.Simulator.Flows = 2
	cfg.Simulator.FlowClasses = []int{0, 1}
	cfg.Report.Enabled = false
	return cfg
}

// TestExecuteRun_SyntheticPersistsTransitions runs two short episodes end to end and
// reads the trajectory back from sqlite.
func TestExecuteRun_SyntheticPersistsTransitions(t *testing.T) {
	// GIVEN a 2 s episode, 2 flows, 0.5 s steps, sqlite persistence
	cfg := smallRunConfig(t)
	cfg.Store.Kind = "sqlite"
	cfg.Store.Path = filepath.Join(t.TempDir(), "run.db")

	// WHEN the run executes
	result, recorder, err := executeRun(context.Background(), &cfg, "run-e2e")
	require.NoError(t, err)

	// THEN both episodes completed with 4 intervals x 2 flows each
	assert.Equal(t, 2, result.Episodes)
	assert.Equal(t, 16, result.Steps)
	assert.Equal(t, 2, result.Agents)
	assert.False(t, result.Interrupted)
	assert.Equal(t, 16, recorder.Samples())

	// THEN every step was persisted under the run id
	s := store.NewSQLiteStore(cfg.Store.Path)
	require.NoError(t, s.Init(context.Background()))
	defer func() { _ = s.Close() }()
	transitions, err := s.Transitions(context.Background(), "run-e2e")
	require.NoError(t, err)
	require.Len(t, transitions, 16)
	kinds := map[string]int{}
	for _, tr := range transitions {
		kinds[tr.Agent]++
		assert.Contains(t, []float64{10, -20}, tr.Reward)
	}
	assert.Equal(t, map[string]int{"newreno": 16 / 2, "dqlearning": 16 / 2}, kinds)
}

func TestExecuteRun_DeterministicPerSeed(t *testing.T) {
	run := func() []float64 {
		cfg := smallRunConfig(t)
		_, recorder, err := executeRun(context.Background(), &cfg, "r")
		require.NoError(t, err)
		return recorder.Series("cWnd")
	}
	assert.Equal(t, run(), run())
}

func TestExecuteRun_WritesPlots(t *testing.T) {
	cfg := smallRunConfig(t)
	cfg.Iterations = 1
	cfg.Report.Enabled = true
	cfg.Report.Dir = t.TempDir()
	cfg.Report.Format = "svg"

	_, _, err := executeRun(context.Background(), &cfg, "r")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.Report.Dir, "throughput.svg"))
	assert.NoError(t, err)
}

func TestExecuteRun_CancelledContextIsInterrupt(t *testing.T) {
	cfg := smallRunConfig(t)
	cfg.Iterations = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, _, err := executeRun(ctx, &cfg, "r")

	require.NoError(t, err)
	assert.True(t, result.Interrupted)
	assert.Equal(t, 0, result.Steps)
}

func TestExecuteRun_InvalidConfig(t *testing.T) {
	cfg := smallRunConfig(t)
	cfg.Simulator.Kind = "ns2"
	_, _, err := executeRun(context.Background(), &cfg, "r")
	assert.Error(t, err)
}
