package cc

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rltcp/cc/trace"
	"github.com/inference-sim/rltcp/gym"
	"github.com/inference-sim/rltcp/store"
)

// LoopState is the controller's position in the episode state machine.
type LoopState string

const (
	StateAwaitingReset LoopState = "awaiting-reset"
	StateStepping      LoopState = "stepping"
	StateEpisodeDone   LoopState = "episode-done"
	StateTerminated    LoopState = "terminated"
)

// Reporter renders the collected trace when the run terminates.
type Reporter interface {
	Report(tr *trace.Recorder) error
}

// LoopConfig groups episode-loop parameters.
type LoopConfig struct {
	RunID string
	// Iterations is the number of episodes to run. The bound is checked after each
	// episode completes, so values <= 0 never match: at least one episode runs and the
	// loop continues until interrupted or the simulator fails.
	Iterations int
	// MaxEnvStep truncates an episode after this many steps. 0 disables truncation.
	MaxEnvStep int
}

// Validate returns an error if the config is invalid.
func (c LoopConfig) Validate() error {
	if c.MaxEnvStep < 0 {
		return fmt.Errorf("max env step must be non-negative, got %d", c.MaxEnvStep)
	}
	return nil
}

// RunResult summarizes a finished run.
type RunResult struct {
	RunID       string
	Episodes    int // completed episodes
	Steps       int // completed select/step/update cycles across all episodes
	Agents      int // distinct flows seen
	Improved    int // steps rewarded RewardImproved
	NotImproved int // steps rewarded RewardNotImproved
	Interrupted bool
}

// Controller drives agents against a simulator, one step at a time.
//
// Per step it resolves the agent owning the current observation, asks it for an
// action, steps the simulator, replaces the simulator's reward with the utility
// comparison reward, bootstraps a target from the acting agent's values at the next
// observation, infers the realized action from the window change, and updates the
// agent with the pre-step observation.
//
// Thread-safety: NOT thread-safe. Run must be called once, from one goroutine.
type Controller struct {
	env      gym.Env
	registry *Registry
	recorder *trace.Recorder
	reporter Reporter
	sink     store.Store
	cfg      LoopConfig

	state  LoopState
	closed bool
}

// NewController wires a controller. recorder, reporter and sink may be nil.
// The controller takes ownership of env and closes it when Run returns.
func NewController(env gym.Env, registry *Registry, recorder *trace.Recorder, reporter Reporter,
	sink store.Store, cfg LoopConfig) *Controller {
	return &Controller{
		env:      env,
		registry: registry,
		recorder: recorder,
		reporter: reporter,
		sink:     sink,
		cfg:      cfg,
		state:    StateAwaitingReset,
	}
}

// State returns the current loop state.
func (c *Controller) State() LoopState {
	return c.state
}

// Run executes episodes until the iteration bound is reached, ctx is cancelled, or
// the simulator fails. Cancellation is a normal termination: the result is marked
// Interrupted and the error is nil. On every path the trace is reported and the
// simulator is closed exactly once.
func (c *Controller) Run(ctx context.Context) (result RunResult, err error) {
	result.RunID = c.cfg.RunID
	defer func() {
		result.Agents = c.registry.Len()
		if termErr := c.terminate(); termErr != nil && err == nil {
			err = termErr
		}
	}()

	var pending []float64
	episode := 0
	for {
		c.state = StateAwaitingReset
		raw := pending
		pending = nil
		if raw == nil {
			raw, err = c.env.Reset(ctx)
			if err != nil {
				return c.fail(ctx, result, fmt.Errorf("simulator reset: %w", err))
			}
		}
		obs, err := ParseObservation(raw)
		if err != nil {
			return result, fmt.Errorf("reset observation: %w", err)
		}
		logrus.Infof("Start iteration: %d", episode)

		var (
			reward  float64
			done    bool
			info    string
			stepIdx int
		)
		c.state = StateStepping
		for {
			if ctx.Err() != nil {
				return c.fail(ctx, result, ctx.Err())
			}
			if c.recorder != nil {
				c.recorder.Sample(stepIdx, obs.Telemetry())
			}
			stepIdx++

			agent, err := c.registry.Resolve(obs)
			if err != nil {
				return result, fmt.Errorf("resolving agent for flow %d: %w", obs.Flow, err)
			}
			action, err := agent.SelectAction(obs, reward, done, info)
			if err != nil {
				return result, fmt.Errorf("flow %d select action: %w", obs.Flow, err)
			}
			logrus.Debugf("Step: %d ---action: %v (%s)", stepIdx, action.Command(), action.Code)

			res, err := c.env.Step(ctx, action.Command())
			if err != nil {
				return c.fail(ctx, result, fmt.Errorf("simulator step: %w", err))
			}
			next, err := ParseObservation(res.Obs)
			if err != nil {
				return result, fmt.Errorf("step observation: %w", err)
			}
			logrus.Debugf("---obs, reward, done, info: %v %v %v %q", res.Obs, res.Reward, res.Done, res.Info)

			if !TelemetryPositive(obs) || !TelemetryPositive(next) {
				logrus.Warnf("flow %d: non-positive throughput or RTT at step %d; utility is not finite", obs.Flow, stepIdx)
			}
			reward = Reward(obs, next)
			done = res.Done
			info = res.Info

			target := reward
			if !done {
				if va, ok := agent.(ValueAgent); ok {
					values, err := va.QValues(next)
					if err != nil {
						return result, fmt.Errorf("flow %d next-state values: %w", obs.Flow, err)
					}
					target = LearningTarget(reward, false, values)
				}
			}

			realized := InferAction(obs.CWnd, next.CWnd)
			if err := agent.Update(obs, target, realized); err != nil {
				return result, fmt.Errorf("flow %d update: %w", obs.Flow, err)
			}

			result.Steps++
			if reward == RewardImproved {
				result.Improved++
			} else {
				result.NotImproved++
			}
			if err := c.persist(ctx, episode, stepIdx, agent, obs, next, action, realized, reward, target, done); err != nil {
				return result, err
			}

			obs = next

			truncated := c.cfg.MaxEnvStep > 0 && stepIdx >= c.cfg.MaxEnvStep
			if done || truncated {
				c.state = StateEpisodeDone
				if truncated && !done {
					logrus.Infof("Episode %d truncated after %d steps", episode, stepIdx)
				}
				if c.cfg.Iterations <= 0 || episode+1 < c.cfg.Iterations {
					pending, err = c.env.Reset(ctx)
					if err != nil {
						return c.fail(ctx, result, fmt.Errorf("simulator reset: %w", err))
					}
				}
				break
			}
		}

		episode++
		result.Episodes = episode
		if episode == c.cfg.Iterations {
			return result, nil
		}
	}
}

// fail classifies err: after cancellation it is an interrupt (normal termination),
// otherwise it is returned as fatal.
func (c *Controller) fail(ctx context.Context, result RunResult, err error) (RunResult, error) {
	if ctx.Err() != nil {
		logrus.Infof("Interrupted -> exit")
		result.Interrupted = true
		return result, nil
	}
	return result, err
}

func (c *Controller) persist(ctx context.Context, episode, step int, agent Agent, obs, next Observation,
	action Action, realized ActionCode, reward, target float64, done bool) error {
	if c.sink == nil {
		return nil
	}
	err := c.sink.SaveTransition(ctx, store.Transition{
		RunID:     c.cfg.RunID,
		Episode:   episode,
		Step:      step,
		Flow:      uint64(obs.Flow),
		Class:     int(obs.Class),
		Agent:     agent.Kind(),
		Obs:       obs.Vector,
		NextObs:   next.Vector,
		Requested: int(action.Code),
		Realized:  int(realized),
		Reward:    reward,
		Target:    target,
		Done:      done,
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("saving transition: %w", err)
	}
	return nil
}

// terminate reports the trace and releases the simulator. The simulator is closed
// exactly once even if reporting fails.
func (c *Controller) terminate() error {
	c.state = StateTerminated
	var reportErr error
	if c.reporter != nil && c.recorder != nil {
		if reportErr = c.reporter.Report(c.recorder); reportErr != nil {
			logrus.Warnf("trace report failed: %v", reportErr)
		}
	}
	if c.closed {
		return reportErr
	}
	c.closed = true
	if err := c.env.Close(); err != nil {
		logrus.Warnf("closing simulator: %v", err)
		if reportErr == nil {
			return fmt.Errorf("closing simulator: %w", err)
		}
	}
	logrus.Info("Done")
	if reportErr != nil {
		return fmt.Errorf("reporting trace: %w", reportErr)
	}
	return nil
}
