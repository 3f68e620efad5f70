package cc

import "fmt"

// ActionCode is the discrete window decision learned by value-based agents.
type ActionCode int

const (
	ActionIncrease ActionCode = 0
	ActionDecrease ActionCode = 1
	ActionHold     ActionCode = 2

	// NumActions is the size of the discrete action set.
	NumActions = 3
)

func (a ActionCode) String() string {
	switch a {
	case ActionIncrease:
		return "increase"
	case ActionDecrease:
		return "decrease"
	case ActionHold:
		return "hold"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Valid reports whether a is one of the NumActions codes.
func (a ActionCode) Valid() bool {
	return a >= 0 && int(a) < NumActions
}

// Action is a requested control decision: the discrete code the agent chose and the
// window command submitted to the simulator.
type Action struct {
	Code     ActionCode
	SSThresh float64
	CWnd     float64
}

// Command returns the simulator action vector [newSsThresh, newCWnd].
func (a Action) Command() []float64 {
	return []float64{a.SSThresh, a.CWnd}
}

// InferAction derives the realized action from the congestion-window change between
// two consecutive observations of a flow, independent of what was requested.
func InferAction(prevCWnd, nextCWnd float64) ActionCode {
	switch {
	case prevCWnd > nextCWnd:
		return ActionDecrease
	case prevCWnd < nextCWnd:
		return ActionIncrease
	default:
		return ActionHold
	}
}
