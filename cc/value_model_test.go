package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultModelConfig().Validate())

	tests := []struct {
		name string
		cfg  ModelConfig
	}{
		{name: "zero learning rate", cfg: ModelConfig{LearningRate: 0, HiddenUnits: 8}},
		{name: "negative learning rate", cfg: ModelConfig{LearningRate: -1, HiddenUnits: 8}},
		{name: "no hidden units", cfg: ModelConfig{LearningRate: 0.1, HiddenUnits: 0}},
		{name: "negative clip", cfg: ModelConfig{LearningRate: 0.1, HiddenUnits: 8, ClipDelta: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
