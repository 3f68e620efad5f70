package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rltcp/cc"
	_ "github.com/inference-sim/rltcp/cc/qnet"
	"github.com/inference-sim/rltcp/cc/trace"
	"github.com/inference-sim/rltcp/gym"
	"github.com/inference-sim/rltcp/report"
	"github.com/inference-sim/rltcp/store"
)

// newEnv connects to (or creates) the simulator named by cfg.Simulator.Kind.
func newEnv(ctx context.Context, cfg *RunConfig, rng *cc.PartitionedRNG) (gym.Env, error) {
	switch cfg.Simulator.Kind {
	case "synthetic":
		return gym.NewSyntheticEnv(cfg.SyntheticConfig(), rng.ForSubsystem(cc.SubsystemSimulator))
	case "http":
		return gym.NewHTTPEnv(ctx, cfg.HTTPConfig())
	default:
		return nil, fmt.Errorf("unknown simulator kind %q", cfg.Simulator.Kind)
	}
}

// executeRun assembles the simulator, registry, trace, reporter and store from cfg
// and runs the control loop. The simulator is closed by the controller on every path.
func executeRun(ctx context.Context, cfg *RunConfig, runID string) (cc.RunResult, *trace.Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return cc.RunResult{}, nil, fmt.Errorf("invalid run config: %w", err)
	}
	rng := cc.NewPartitionedRNG(cfg.Seed)

	sink, err := store.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return cc.RunResult{}, nil, err
	}
	if sink != nil {
		if err := sink.Init(ctx); err != nil {
			return cc.RunResult{}, nil, fmt.Errorf("initializing %s store: %w", cfg.Store.Kind, err)
		}
		defer func() {
			if err := store.CloseIfSupported(sink); err != nil {
				logrus.Warnf("closing store: %v", err)
			}
		}()
	}

	var reporter cc.Reporter
	if cfg.Report.Enabled {
		pr, err := report.NewPlotReporter(cfg.Report.Dir, cfg.Report.Format)
		if err != nil {
			return cc.RunResult{}, nil, err
		}
		reporter = pr
	}

	env, err := newEnv(ctx, cfg, rng)
	if err != nil {
		return cc.RunResult{}, nil, fmt.Errorf("starting simulator: %w", err)
	}
	obSpace, acSpace := env.ObservationSpace(), env.ActionSpace()
	logrus.Infof("Observation space: %s", obSpace)
	logrus.Infof("Action space: %s", acSpace)

	factory := cc.DefaultAgentFactory(cc.AgentConfig{
		Model:       cfg.ModelConfig(),
		Explorer:    cfg.Exploration.Explorer,
		ExploreRate: cfg.Exploration.Rate,
	}, rng)
	registry := cc.NewRegistry(obSpace, acSpace, factory)
	recorder := trace.NewRecorder(cfg.TraceConfig())

	controller := cc.NewController(env, registry, recorder, reporter, sink, cc.LoopConfig{
		RunID:      runID,
		Iterations: cfg.Iterations,
		MaxEnvStep: cfg.MaxEnvStep,
	})
	result, err := controller.Run(ctx)
	return result, recorder, err
}
