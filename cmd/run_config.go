package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rltcp/cc"
	"github.com/inference-sim/rltcp/cc/trace"
	"github.com/inference-sim/rltcp/gym"
	"github.com/inference-sim/rltcp/report"
	"github.com/inference-sim/rltcp/store"
)

// RunConfig is the full run configuration, loadable from a YAML file.
// All sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Seed        int64             `yaml:"seed"`
	Iterations  int               `yaml:"iterations"`
	MaxEnvStep  int               `yaml:"max_env_step"`
	Model       ModelSection      `yaml:"model"`
	Exploration ExplorationConfig `yaml:"exploration"`
	Simulator   SimulatorConfig   `yaml:"simulator"`
	Trace       TraceSection      `yaml:"trace"`
	Report      ReportSection     `yaml:"report"`
	Store       StoreSection      `yaml:"store"`
}

type ModelSection struct {
	LearningRate float64 `yaml:"learning_rate"`
	HiddenUnits  int     `yaml:"hidden_units"`
	ClipDelta    float64 `yaml:"clip_delta"`
}

type ExplorationConfig struct {
	Explorer string  `yaml:"explorer"`
	Rate     float64 `yaml:"rate"`
}

type SimulatorConfig struct {
	Kind         string        `yaml:"kind"` // "synthetic" or "http"
	Address      string        `yaml:"address"`
	Timeout      time.Duration `yaml:"timeout"`
	SimTime      float64       `yaml:"sim_time"`
	StepTime     float64       `yaml:"step_time"`
	Flows        int           `yaml:"flows"`
	FlowClasses  []int         `yaml:"flow_classes"`
	BandwidthBps float64       `yaml:"bandwidth_bps"`
	BaseRTT      float64       `yaml:"base_rtt"`
	BufferBytes  float64       `yaml:"buffer_bytes"`
	SegmentSize  float64       `yaml:"segment_size"`
}

type TraceSection struct {
	Every    int `yaml:"every"`
	Capacity int `yaml:"capacity"`
}

type ReportSection struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"`
}

type StoreSection struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// ValidSimulators is the set of recognized simulator kinds.
var ValidSimulators = map[string]bool{"synthetic": true, "http": true}

// DefaultRunConfig returns the configuration used when neither file nor flags set a value.
func DefaultRunConfig() RunConfig {
	syn := gym.DefaultSyntheticConfig()
	model := cc.DefaultModelConfig()
	return RunConfig{
		Seed:       12,
		Iterations: 1,
		Model: ModelSection{
			LearningRate: model.LearningRate,
			HiddenUnits:  model.HiddenUnits,
			ClipDelta:    model.ClipDelta,
		},
		Exploration: ExplorationConfig{Explorer: "greedy", Rate: 0.1},
		Simulator: SimulatorConfig{
			Kind:         "synthetic",
			Address:      "http://localhost:5555",
			SimTime:      syn.SimTime,
			StepTime:     syn.StepTime,
			Flows:        syn.Flows,
			FlowClasses:  syn.FlowClasses,
			BandwidthBps: syn.BandwidthBps,
			BaseRTT:      syn.BaseRTT,
			BufferBytes:  syn.BufferBytes,
			SegmentSize:  syn.SegmentSize,
		},
		Trace:  TraceSection{Every: 1},
		Report: ReportSection{Enabled: true, Dir: ".", Format: "pdf"},
		Store:  StoreSection{Kind: "none", Path: "rltcp.db"},
	}
}

// LoadRunConfig reads a YAML run config on top of DefaultRunConfig.
// Unknown keys are rejected.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	cfg := DefaultRunConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

// ModelConfig converts the model section.
func (c *RunConfig) ModelConfig() cc.ModelConfig {
	return cc.ModelConfig{
		LearningRate: c.Model.LearningRate,
		HiddenUnits:  c.Model.HiddenUnits,
		ClipDelta:    c.Model.ClipDelta,
	}
}

// SyntheticConfig converts the simulator section for the in-process simulator.
func (c *RunConfig) SyntheticConfig() gym.SyntheticConfig {
	syn := gym.DefaultSyntheticConfig()
	syn.Flows = c.Simulator.Flows
	syn.FlowClasses = c.Simulator.FlowClasses
	syn.SimTime = c.Simulator.SimTime
	syn.StepTime = c.Simulator.StepTime
	syn.BandwidthBps = c.Simulator.BandwidthBps
	syn.BaseRTT = c.Simulator.BaseRTT
	syn.BufferBytes = c.Simulator.BufferBytes
	syn.SegmentSize = c.Simulator.SegmentSize
	return syn
}

// HTTPConfig converts the simulator section for a remote simulator bridge.
func (c *RunConfig) HTTPConfig() gym.HTTPConfig {
	return gym.HTTPConfig{
		BaseURL:  c.Simulator.Address,
		Seed:     c.Seed,
		StepTime: c.Simulator.StepTime,
		SimArgs:  map[string]string{"--duration": fmt.Sprintf("%g", c.Simulator.SimTime)},
		Timeout:  c.Simulator.Timeout,
	}
}

// TraceConfig converts the trace section.
func (c *RunConfig) TraceConfig() trace.Config {
	return trace.Config{Every: c.Trace.Every, Capacity: c.Trace.Capacity}
}

// Validate checks names and parameter ranges before anything is constructed.
func (c *RunConfig) Validate() error {
	if c.MaxEnvStep < 0 {
		return fmt.Errorf("max_env_step must be non-negative, got %d", c.MaxEnvStep)
	}
	if err := c.ModelConfig().Validate(); err != nil {
		return err
	}
	if !cc.IsValidExplorer(c.Exploration.Explorer) {
		return fmt.Errorf("unknown explorer %q", c.Exploration.Explorer)
	}
	if c.Exploration.Rate < 0 || c.Exploration.Rate > 1 {
		return fmt.Errorf("exploration rate must be in [0, 1], got %v", c.Exploration.Rate)
	}
	if !ValidSimulators[c.Simulator.Kind] {
		return fmt.Errorf("unknown simulator kind %q", c.Simulator.Kind)
	}
	if c.Simulator.Kind == "synthetic" {
		if err := c.SyntheticConfig().Validate(); err != nil {
			return err
		}
	}
	if err := c.TraceConfig().Validate(); err != nil {
		return err
	}
	if c.Report.Enabled && !report.ValidFormats[c.Report.Format] {
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}
	if !store.ValidStores[c.Store.Kind] {
		return fmt.Errorf("unknown store %q", c.Store.Kind)
	}
	if c.Store.Kind == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store path is required for sqlite")
	}
	return nil
}
