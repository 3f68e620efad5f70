package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReno_SelectAction(t *testing.T) {
	tests := []struct {
		name         string
		obs          Observation
		wantCWnd     float64
		wantSSThresh float64
		wantCode     ActionCode
	}{
		{
			name:         "slow start adds one segment",
			obs:          Observation{CWnd: 1000, SSThresh: 2000, SegmentSize: 100, SegmentsAckedSum: 1, BytesInFlightSum: 3000},
			wantCWnd:     1100,
			wantSSThresh: 1500,
			wantCode:     ActionIncrease,
		},
		{
			name:         "slow start without acks collapses the window",
			obs:          Observation{CWnd: 1000, SSThresh: 2000, SegmentSize: 100, SegmentsAckedSum: 0, BytesInFlightSum: 1000},
			wantCWnd:     1,
			wantSSThresh: 500,
			wantCode:     ActionDecrease,
		},
		{
			name:         "congestion avoidance adds seg^2/cWnd",
			obs:          Observation{CWnd: 2000, SSThresh: 1000, SegmentSize: 100, SegmentsAckedSum: 2, BytesInFlightSum: 2000},
			wantCWnd:     2005,
			wantSSThresh: 1000,
			wantCode:     ActionIncrease,
		},
		{
			name:         "congestion avoidance adds at least one byte",
			obs:          Observation{CWnd: 20000, SSThresh: 1000, SegmentSize: 100, SegmentsAckedSum: 3, BytesInFlightSum: 20000},
			wantCWnd:     20001,
			wantSSThresh: 10000,
			wantCode:     ActionIncrease,
		},
		{
			name:         "congestion avoidance without acks collapses the window",
			obs:          Observation{CWnd: 2000, SSThresh: 1000, SegmentSize: 100, SegmentsAckedSum: 0, BytesInFlightSum: 2000},
			wantCWnd:     1,
			wantSSThresh: 1000,
			wantCode:     ActionDecrease,
		},
		{
			name:         "ssThresh floors at two segments",
			obs:          Observation{CWnd: 300, SSThresh: 2000, SegmentSize: 100, SegmentsAckedSum: 1, BytesInFlightSum: 100},
			wantCWnd:     400,
			wantSSThresh: 200,
			wantCode:     ActionIncrease,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := NewNewReno()
			action, err := agent.SelectAction(tt.obs, 0, false, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCWnd, action.CWnd)
			assert.Equal(t, tt.wantSSThresh, action.SSThresh)
			assert.Equal(t, tt.wantCode, action.Code)
		})
	}
}

func TestNewReno_IsReactive(t *testing.T) {
	var agent Agent = NewNewReno()
	assert.Equal(t, "newreno", agent.Kind())

	// THEN it exposes no value estimates
	_, isValueAgent := agent.(ValueAgent)
	assert.False(t, isValueAgent)

	// THEN updates are accepted and ignored
	obs := Observation{CWnd: 1000, SSThresh: 2000, SegmentSize: 100, SegmentsAckedSum: 1}
	before, err := agent.SelectAction(obs, 0, false, "")
	require.NoError(t, err)
	require.NoError(t, agent.Update(obs, 1e6, ActionDecrease))
	after, err := agent.SelectAction(obs, 0, false, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
