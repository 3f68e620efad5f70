// Package cc provides the per-flow congestion-control decision engine.
//
// # Reading Guide
//
// Start with these files:
//   - observation.go: the simulator's per-step observation vector and its field layout
//   - registry.go: lazy get-or-create mapping from flow id to Agent
//   - controller.go: the episode/step loop (select, step, reward, target, update)
//
// # Architecture
//
// The cc package defines the Agent and ValueModel interfaces and the loop that drives
// them against a gym.Env. Implementations of ValueModel live in cc/qnet/, which
// registers itself via init() by setting NewValueModelFunc. Trace buffers live in
// cc/trace/ and are rendered by the report/ package.
//
// # Key Interfaces
//   - Agent: per-flow control unit (Configure, SelectAction, Update)
//   - ValueAgent: agents exposing action values for the bootstrapped learning target
//   - ValueModel: predict/fit contract consumed by the learned agent
//   - Explorer: optional exploration override for the learned agent
//   - Reporter: end-of-run trace renderer; per-step transitions go to a store.Store
package cc
