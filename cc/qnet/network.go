// Package qnet implements the value-function approximator used by learned agents:
// a single-hidden-layer network mapping an observation vector to one value per action,
// trained online with one SGD step per sample.
package qnet

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/rltcp/cc"
)

// inputScale divides squashed inputs so that raw telemetry spanning many orders of
// magnitude (flow ids, byte counts, microseconds) lands roughly in [-3, 3].
const inputScale = 10.0

// ErrDiverged is returned when an update produces non-finite weights.
var ErrDiverged = errors.New("value model diverged")

// Network is a ReLU multilayer perceptron with one hidden layer and a linear output per action.
//
// Thread-safety: NOT thread-safe. Each learned agent owns its own Network.
type Network struct {
	cfg        cc.ModelConfig
	inputDim   int
	numActions int

	w1 *mat.Dense    // hidden × input
	b1 *mat.VecDense // hidden
	w2 *mat.Dense    // actions × hidden
	b2 *mat.VecDense // actions
}

// New creates a Network with Xavier-uniform weights drawn from rng and zero biases.
func New(inputDim, numActions int, cfg cc.ModelConfig, rng *rand.Rand) (*Network, error) {
	if inputDim <= 0 || numActions <= 0 {
		return nil, fmt.Errorf("input and action dimensions must be positive, got %d/%d", inputDim, numActions)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("value model requires a random source")
	}
	hidden := cfg.HiddenUnits
	return &Network{
		cfg:        cfg,
		inputDim:   inputDim,
		numActions: numActions,
		w1:         xavier(hidden, inputDim, rng),
		b1:         mat.NewVecDense(hidden, nil),
		w2:         xavier(numActions, hidden, rng),
		b2:         mat.NewVecDense(numActions, nil),
	}, nil
}

func xavier(rows, cols int, rng *rand.Rand) *mat.Dense {
	limit := math.Sqrt(6.0 / float64(rows+cols))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (2*rng.Float64() - 1) * limit
	}
	return mat.NewDense(rows, cols, data)
}

// squash maps x to sign(x)·ln(1+|x|)/inputScale.
func squash(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Copysign(math.Log1p(math.Abs(v)), v) / inputScale
	}
	return out
}

type activations struct {
	in *mat.VecDense // squashed input
	z  *mat.VecDense // hidden pre-activation
	h  *mat.VecDense // hidden post-activation
	q  *mat.VecDense // per-action values
}

func (n *Network) forward(x []float64) (activations, error) {
	if len(x) != n.inputDim {
		return activations{}, fmt.Errorf("input width %d, want %d", len(x), n.inputDim)
	}
	hidden, _ := n.w1.Dims()
	a := activations{
		in: mat.NewVecDense(n.inputDim, squash(x)),
		z:  mat.NewVecDense(hidden, nil),
		h:  mat.NewVecDense(hidden, nil),
		q:  mat.NewVecDense(n.numActions, nil),
	}
	a.z.MulVec(n.w1, a.in)
	a.z.AddVec(a.z, n.b1)
	for i := 0; i < hidden; i++ {
		a.h.SetVec(i, math.Max(0, a.z.AtVec(i)))
	}
	a.q.MulVec(n.w2, a.h)
	a.q.AddVec(a.q, n.b2)
	return a, nil
}

// Predict returns per-action values for each row of batch.
func (n *Network) Predict(batch [][]float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for i, x := range batch {
		a, err := n.forward(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = mat.Col(nil, 0, a.q)
	}
	return out, nil
}

// Fit performs one SGD step on ½(q[action]−target)², with the error clipped to ±ClipDelta.
func (n *Network) Fit(x []float64, target float64, action int) error {
	if action < 0 || action >= n.numActions {
		return fmt.Errorf("action %d out of range [0, %d)", action, n.numActions)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fmt.Errorf("target must be finite, got %v", target)
	}
	a, err := n.forward(x)
	if err != nil {
		return err
	}

	delta := a.q.AtVec(action) - target
	if clip := n.cfg.ClipDelta; clip > 0 {
		delta = math.Max(-clip, math.Min(clip, delta))
	}
	lr := n.cfg.LearningRate
	hidden, _ := n.w1.Dims()

	// Hidden-layer gradient uses the output weights before they are updated.
	w2Row := n.w2.RowView(action).(*mat.VecDense)
	dh := mat.NewVecDense(hidden, nil)
	for i := 0; i < hidden; i++ {
		if a.z.AtVec(i) > 0 {
			dh.SetVec(i, delta*w2Row.AtVec(i))
		}
	}

	w2Row.AddScaledVec(w2Row, -lr*delta, a.h)
	n.b2.SetVec(action, n.b2.AtVec(action)-lr*delta)
	n.w1.RankOne(n.w1, -lr, dh, a.in)
	n.b1.AddScaledVec(n.b1, -lr, dh)

	if floats.HasNaN(n.w1.RawMatrix().Data) || floats.HasNaN(n.w2.RawMatrix().Data) {
		return ErrDiverged
	}
	return nil
}

// Dims returns the input width and number of actions.
func (n *Network) Dims() (inputDim, numActions int) {
	return n.inputDim, n.numActions
}
