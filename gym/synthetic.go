package gym

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ObservationWidth is the number of fields in every observation vector emitted by
// the TCP environments in this package.
const ObservationWidth = 16

// SyntheticConfig parameterises the in-process bottleneck-link simulator.
type SyntheticConfig struct {
	Flows          int     // number of concurrent flows sharing the bottleneck (must be > 0)
	FlowClasses    []int   // per-flow class; shorter slices repeat their last entry (default: all 1)
	SimTime        float64 // episode length in simulated seconds
	StepTime       float64 // simulated seconds between two observations of the same flow
	BandwidthBps   float64 // bottleneck capacity in bytes per second
	BaseRTT        float64 // propagation round-trip time in seconds
	BufferBytes    float64 // bottleneck queue capacity in bytes
	SegmentSize    float64 // bytes per segment
	InitialCWnd    float64 // initial congestion window in segments
	InitialSSThres float64 // initial slow-start threshold in bytes
	RTTJitter      float64 // relative standard deviation of per-interval RTT noise
}

// DefaultSyntheticConfig mirrors the dumbbell scenario the rl-tcp experiments run:
// a 2 Mbps bottleneck, 10 s episodes observed every 0.5 s.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Flows:          1,
		FlowClasses:    []int{1},
		SimTime:        10,
		StepTime:       0.5,
		BandwidthBps:   250_000,
		BaseRTT:        0.04,
		BufferBytes:    30_000,
		SegmentSize:    536,
		InitialCWnd:    10,
		InitialSSThres: 65_535,
		RTTJitter:      0.02,
	}
}

// Validate returns an error if the config cannot drive a simulation.
func (c SyntheticConfig) Validate() error {
	if c.Flows <= 0 {
		return fmt.Errorf("flows must be positive, got %d", c.Flows)
	}
	if c.SimTime <= 0 || c.StepTime <= 0 {
		return fmt.Errorf("sim time and step time must be positive, got %v/%v", c.SimTime, c.StepTime)
	}
	if c.BandwidthBps <= 0 || c.BaseRTT <= 0 || c.SegmentSize <= 0 {
		return fmt.Errorf("bandwidth, base RTT and segment size must be positive")
	}
	if c.BufferBytes < 0 || c.RTTJitter < 0 {
		return fmt.Errorf("buffer and jitter must be non-negative")
	}
	return nil
}

func (c SyntheticConfig) classOf(i int) int {
	if len(c.FlowClasses) == 0 {
		return 1
	}
	if i < len(c.FlowClasses) {
		return c.FlowClasses[i]
	}
	return c.FlowClasses[len(c.FlowClasses)-1]
}

type syntheticFlow struct {
	id         float64
	class      int
	ssThresh   float64
	cWnd       float64
	inFlight   float64
	acked      float64
	rtt        float64
	minRTT     float64
	interTx    float64
	interRx    float64
	throughput float64
}

// SyntheticEnv simulates flows sharing one drop-tail bottleneck. Flows take turns:
// each Step applies the command to the flow whose observation was emitted last and
// returns the next flow's observation. The simulated clock advances by StepTime once
// every flow has acted.
//
// Thread-safety: NOT thread-safe. Must be driven from a single goroutine.
type SyntheticEnv struct {
	cfg    SyntheticConfig
	rng    *rand.Rand
	ids    []float64
	flows  []*syntheticFlow
	turn   int
	clock  float64
	queue  float64
	done   bool
	closed bool
}

// NewSyntheticEnv creates a SyntheticEnv. The rng drives flow ids and RTT noise.
func NewSyntheticEnv(cfg SyntheticConfig, rng *rand.Rand) (*SyntheticEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthetic simulator config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("synthetic simulator requires a random source")
	}
	return &SyntheticEnv{cfg: cfg, rng: rng}, nil
}

func (e *SyntheticEnv) ObservationSpace() Space {
	return NewBox(ObservationWidth, 0, 1e10, "uint64")
}

func (e *SyntheticEnv) ActionSpace() Space {
	return NewBox(2, 0, 1e10, "uint64")
}

// Reset starts a new episode. Flow ids are drawn on the first reset and kept for
// the simulator's lifetime, so the same flows reappear in every episode.
func (e *SyntheticEnv) Reset(ctx context.Context) ([]float64, error) {
	if e.closed {
		return nil, ErrEnvClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.clock = 0
	e.queue = 0
	e.turn = 0
	e.done = false
	if e.ids == nil {
		e.ids = e.drawIDs()
	}
	e.flows = make([]*syntheticFlow, e.cfg.Flows)
	for i := range e.flows {
		cWnd := e.cfg.InitialCWnd * e.cfg.SegmentSize
		f := &syntheticFlow{
			id:       e.ids[i],
			class:    e.cfg.classOf(i),
			ssThresh: e.cfg.InitialSSThres,
			cWnd:     cWnd,
			rtt:      e.cfg.BaseRTT,
			minRTT:   e.cfg.BaseRTT,
		}
		f.throughput = cWnd / e.cfg.BaseRTT
		f.inFlight = cWnd
		f.interTx = e.cfg.SegmentSize / f.throughput
		f.interRx = f.interTx
		e.flows[i] = f
	}
	logrus.Debugf("synthetic simulator reset: %d flow(s)", len(e.flows))
	return e.observe(e.flows[0]), nil
}

// Step applies action = [newSsThresh, newCWnd] to the flow whose turn it is.
func (e *SyntheticEnv) Step(ctx context.Context, action []float64) (StepResult, error) {
	if e.closed {
		return StepResult{}, ErrEnvClosed
	}
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}
	if e.flows == nil {
		return StepResult{}, fmt.Errorf("step called before reset")
	}
	if len(action) != 2 {
		return StepResult{}, fmt.Errorf("action must be [ssThresh, cWnd], got %d values", len(action))
	}
	if e.done {
		last := e.flows[e.turn]
		return StepResult{Obs: e.observe(last), Done: true, Info: "episode over"}, nil
	}

	f := e.flows[e.turn]
	f.ssThresh = math.Max(action[0], 2*e.cfg.SegmentSize)
	f.cWnd = math.Max(action[1], e.cfg.SegmentSize)

	e.turn++
	if e.turn == len(e.flows) {
		e.turn = 0
		e.advance()
	}
	next := e.flows[e.turn]
	return StepResult{
		Obs:    e.observe(next),
		Reward: next.acked,
		Done:   e.done,
	}, nil
}

// advance integrates the bottleneck over one StepTime interval.
func (e *SyntheticEnv) advance() {
	dt := e.cfg.StepTime
	capacity := e.cfg.BandwidthBps
	rtt := e.cfg.BaseRTT + e.queue/capacity

	offered := 0.0
	rates := make([]float64, len(e.flows))
	for i, f := range e.flows {
		rates[i] = f.cWnd / rtt
		offered += rates[i]
	}

	share := 1.0
	if offered > capacity {
		share = capacity / offered
		e.queue += (offered - capacity) * dt
	} else {
		e.queue = math.Max(0, e.queue-(capacity-offered)*dt)
	}
	loss := e.queue > e.cfg.BufferBytes
	if loss {
		e.queue = e.cfg.BufferBytes
	}

	rtt = e.cfg.BaseRTT + e.queue/capacity
	for i, f := range e.flows {
		sample := rtt * (1 + e.cfg.RTTJitter*e.rng.NormFloat64())
		sample = math.Max(sample, e.cfg.BaseRTT)
		f.rtt = sample
		f.minRTT = math.Min(f.minRTT, sample)
		f.throughput = math.Max(rates[i]*share, e.cfg.SegmentSize/dt)
		f.acked = math.Floor(f.throughput * dt / e.cfg.SegmentSize)
		f.inFlight = math.Min(f.cWnd, f.throughput*f.rtt)
		f.interTx = e.cfg.SegmentSize / math.Max(rates[i], 1)
		f.interRx = e.cfg.SegmentSize / f.throughput
		if loss {
			f.ssThresh = math.Max(2*e.cfg.SegmentSize, f.cWnd/2)
			f.cWnd = f.ssThresh
		}
	}

	e.clock += dt
	if e.clock >= e.cfg.SimTime {
		e.done = true
	}
}

func (e *SyntheticEnv) drawIDs() []float64 {
	ids := make([]float64, e.cfg.Flows)
	seen := make(map[float64]bool, e.cfg.Flows)
	for i := range ids {
		id := float64(e.rng.Uint32())
		for seen[id] {
			id = float64(e.rng.Uint32())
		}
		seen[id] = true
		ids[i] = id
	}
	return ids
}

func (e *SyntheticEnv) observe(f *syntheticFlow) []float64 {
	const us = 1e6
	n := math.Max(f.acked, 1)
	return []float64{
		f.id,
		float64(f.class),
		math.Round(e.clock * us),
		0,
		f.ssThresh,
		f.cWnd,
		e.cfg.SegmentSize,
		f.inFlight,
		f.inFlight / n,
		f.acked,
		f.acked / math.Max(e.cfg.StepTime/f.rtt, 1),
		f.rtt * us,
		f.minRTT * us,
		f.interTx * us,
		f.interRx * us,
		f.throughput,
	}
}

// Close releases the simulator. Subsequent calls return ErrEnvClosed.
func (e *SyntheticEnv) Close() error {
	if e.closed {
		return ErrEnvClosed
	}
	e.closed = true
	return nil
}
