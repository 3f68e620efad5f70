package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferAction(t *testing.T) {
	tests := []struct {
		name       string
		prev, next float64
		want       ActionCode
	}{
		{name: "window shrank", prev: 10, next: 8, want: ActionDecrease},
		{name: "window grew", prev: 8, next: 10, want: ActionIncrease},
		{name: "window unchanged", prev: 9, next: 9, want: ActionHold},
		{name: "fractional growth", prev: 1000, next: 1000.5, want: ActionIncrease},
		{name: "collapse to one byte", prev: 5360, next: 1, want: ActionDecrease},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferAction(tt.prev, tt.next))
		})
	}
}

func TestActionCode_StringAndValid(t *testing.T) {
	assert.Equal(t, "increase", ActionIncrease.String())
	assert.Equal(t, "decrease", ActionDecrease.String())
	assert.Equal(t, "hold", ActionHold.String())
	assert.Equal(t, "action(7)", ActionCode(7).String())

	for code := ActionCode(0); int(code) < NumActions; code++ {
		assert.True(t, code.Valid(), "code %d", code)
	}
	assert.False(t, ActionCode(-1).Valid())
	assert.False(t, ActionCode(NumActions).Valid())
}

func TestAction_Command(t *testing.T) {
	a := Action{Code: ActionIncrease, SSThresh: 1072, CWnd: 5896}
	assert.Equal(t, []float64{1072, 5896}, a.Command())
}
