package cc

import (
	"fmt"
	"math"

	"github.com/inference-sim/rltcp/gym"
)

// DQLearning is the learned controller used for time-based flows. It selects the
// action of maximal predicted value and learns online, one sample per step.
type DQLearning struct {
	model    ValueModel
	explorer Explorer
	obSpace  gym.Space
	acSpace  gym.Space
	inputDim int
}

// NewDQLearning creates a learned agent over model. inputDim is the observation
// width the model was built for; explorer may be nil for pure greedy selection.
func NewDQLearning(model ValueModel, inputDim int, explorer Explorer) *DQLearning {
	if explorer == nil {
		explorer = Greedy{}
	}
	return &DQLearning{model: model, explorer: explorer, inputDim: inputDim}
}

func (d *DQLearning) Kind() string { return "dqlearning" }

// Configure records the spaces and checks the observation space matches the model width.
func (d *DQLearning) Configure(obSpace, acSpace gym.Space) error {
	if dim := obSpace.Dim(); dim != 0 && dim != d.inputDim {
		return fmt.Errorf("%w: space width %d, model width %d", ErrSpaceMismatch, dim, d.inputDim)
	}
	d.obSpace = obSpace
	d.acSpace = acSpace
	return nil
}

// QValues returns the model's value estimate for every action code at obs.
func (d *DQLearning) QValues(obs Observation) ([]float64, error) {
	if err := d.checkInput(obs); err != nil {
		return nil, err
	}
	out, err := d.model.Predict([][]float64{obs.Vector})
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return out[0], nil
}

// SelectAction returns the argmax action unless the explorer overrides it.
func (d *DQLearning) SelectAction(obs Observation, _ float64, _ bool, _ string) (Action, error) {
	code, explored := d.explorer.Explore()
	if !explored {
		values, err := d.QValues(obs)
		if err != nil {
			return Action{}, err
		}
		code = ActionCode(Argmax(values))
	}
	return d.command(obs, code), nil
}

// Update fits the model toward target for the realized action at obs.
func (d *DQLearning) Update(obs Observation, target float64, realized ActionCode) error {
	if !realized.Valid() {
		return fmt.Errorf("invalid realized action %d", int(realized))
	}
	if err := d.checkInput(obs); err != nil {
		return err
	}
	if err := d.model.Fit(obs.Vector, target, int(realized)); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	return nil
}

func (d *DQLearning) checkInput(obs Observation) error {
	if len(obs.Vector) != d.inputDim {
		return fmt.Errorf("%w: got %d values, want %d", ErrSpaceMismatch, len(obs.Vector), d.inputDim)
	}
	return nil
}

// command maps a code to a window update of one segment.
func (d *DQLearning) command(obs Observation, code ActionCode) Action {
	seg := obs.SegmentSize
	cWnd := obs.CWnd
	switch code {
	case ActionIncrease:
		cWnd += seg
	case ActionDecrease:
		cWnd = math.Max(seg, cWnd-seg)
	}
	return Action{
		Code:     code,
		SSThresh: math.Trunc(math.Max(2*seg, obs.BytesInFlightSum/2)),
		CWnd:     cWnd,
	}
}
