package cc

import (
	"fmt"
	"math/rand"

	"github.com/inference-sim/rltcp/gym"
	"github.com/sirupsen/logrus"
)

// AgentFactory builds the agent for a newly seen flow.
// obSpace is the global observation space, used to shape learned agents.
type AgentFactory func(flow FlowID, class FlowClass, obSpace gym.Space) (Agent, error)

// AgentConfig controls how DefaultAgentFactory builds learned agents.
type AgentConfig struct {
	Model        ModelConfig
	Explorer     string  // "greedy" (default) or "epsilon-greedy"
	ExploreRate  float64 // probability of a random action for epsilon-greedy
	ModelFactory func(inputDim, numActions int, cfg ModelConfig, rng *rand.Rand) (ValueModel, error) // overrides NewValueModelFunc when set
}

// DefaultAgentFactory returns the factory mapping class 0 to NewReno and every other
// class to DQLearning over a model sized to the observation space.
func DefaultAgentFactory(cfg AgentConfig, rng *PartitionedRNG) AgentFactory {
	return func(flow FlowID, class FlowClass, obSpace gym.Space) (Agent, error) {
		if class == FlowClassEventBased {
			return NewNewReno(), nil
		}
		newModel := cfg.ModelFactory
		if newModel == nil {
			newModel = NewValueModelFunc
		}
		if newModel == nil {
			return nil, fmt.Errorf("no value model registered (import cc/qnet)")
		}
		dim := obSpace.Dim()
		if dim == 0 {
			dim = ObservationFields
		}
		model, err := newModel(dim, NumActions, cfg.Model, rng.ForSubsystem(SubsystemModel(flow)))
		if err != nil {
			return nil, fmt.Errorf("creating value model for flow %d: %w", flow, err)
		}
		explorer := NewExplorer(cfg.Explorer, cfg.ExploreRate, rng.ForSubsystem(SubsystemExplorer(flow)))
		return NewDQLearning(model, dim, explorer), nil
	}
}

// Registry maps flow ids to their agents, creating each agent the first time its flow
// is observed. The class seen first is sticky for the flow's lifetime.
// There is no removal; entries live as long as the registry.
//
// Thread-safety: NOT thread-safe. Owned by a single Controller.
type Registry struct {
	obSpace gym.Space
	acSpace gym.Space
	factory AgentFactory
	agents  map[FlowID]Agent
	order   []FlowID
}

// NewRegistry creates an empty registry configuring every agent with the given spaces.
func NewRegistry(obSpace, acSpace gym.Space, factory AgentFactory) *Registry {
	return &Registry{
		obSpace: obSpace,
		acSpace: acSpace,
		factory: factory,
		agents:  make(map[FlowID]Agent),
	}
}

// Resolve returns the agent owning obs.Flow, creating and configuring one on a miss.
// A miss is never an error; errors come only from the factory or Configure.
func (r *Registry) Resolve(obs Observation) (Agent, error) {
	if agent, ok := r.agents[obs.Flow]; ok {
		return agent, nil
	}
	agent, err := r.factory(obs.Flow, obs.Class, r.obSpace)
	if err != nil {
		return nil, err
	}
	if err := agent.Configure(r.obSpace, r.acSpace); err != nil {
		return nil, fmt.Errorf("configuring agent for flow %d: %w", obs.Flow, err)
	}
	r.agents[obs.Flow] = agent
	r.order = append(r.order, obs.Flow)
	logrus.Infof("New %s agent for flow %d (class %d)", agent.Kind(), obs.Flow, obs.Class)
	return agent, nil
}

// Lookup returns the agent for flow without creating one.
func (r *Registry) Lookup(flow FlowID) (Agent, bool) {
	agent, ok := r.agents[flow]
	return agent, ok
}

// Len returns the number of agents created.
func (r *Registry) Len() int {
	return len(r.agents)
}

// Flows returns flow ids in creation order.
func (r *Registry) Flows() []FlowID {
	out := make([]FlowID, len(r.order))
	copy(out, r.order)
	return out
}
