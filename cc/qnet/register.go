// register.go wires the qnet constructor into the cc package's registration variable
// (NewValueModelFunc). This init() runs when any package imports cc/qnet, breaking
// the import cycle between cc/ (interface owner) and cc/qnet/ (implementation).
// Production code imports cc/qnet directly; test code in package cc uses
// qnet_import_test.go for the blank import.
package qnet

import (
	"math/rand"

	"github.com/inference-sim/rltcp/cc"
)

func init() {
	cc.NewValueModelFunc = func(inputDim, numActions int, cfg cc.ModelConfig, rng *rand.Rand) (cc.ValueModel, error) {
		return New(inputDim, numActions, cfg, rng)
	}
}
