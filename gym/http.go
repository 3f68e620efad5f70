package gym

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPConfig configures the client for a simulator bridge.
type HTTPConfig struct {
	BaseURL  string            // e.g. "http://localhost:5555"
	Seed     int64             // simulator seed sent with every reset
	StepTime float64           // seconds between observations
	SimArgs  map[string]string // forwarded to the simulator script, e.g. {"--duration": "10"}
	Timeout  time.Duration     // per-request timeout; 0 waits indefinitely
}

type spacesResponse struct {
	ObservationSpace Space `json:"observation_space"`
	ActionSpace      Space `json:"action_space"`
}

type resetRequest struct {
	Seed     int64             `json:"seed"`
	StepTime float64           `json:"step_time"`
	SimArgs  map[string]string `json:"sim_args,omitempty"`
}

type resetResponse struct {
	Obs []float64 `json:"obs"`
}

type stepRequest struct {
	Action []float64 `json:"action"`
}

// HTTPEnv drives a remote simulator through a JSON bridge:
//
//	GET  /spaces -> {"observation_space": Space, "action_space": Space}
//	POST /reset  -> {"obs": [...]}
//	POST /step   -> {"obs": [...], "reward": r, "done": b, "info": s}
//	POST /close
//
// Spaces are fetched once when the client is created.
type HTTPEnv struct {
	cfg        HTTPConfig
	baseURL    string
	httpClient *http.Client
	spaces     spacesResponse
	closed     bool
}

// NewHTTPEnv connects to the bridge and fetches the static space descriptors.
func NewHTTPEnv(ctx context.Context, cfg HTTPConfig) (*HTTPEnv, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("simulator address is required")
	}
	e := &HTTPEnv{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if err := e.do(ctx, http.MethodGet, "/spaces", nil, &e.spaces); err != nil {
		return nil, fmt.Errorf("fetching simulator spaces: %w", err)
	}
	logrus.Infof("Connected to simulator at %s", e.baseURL)
	return e, nil
}

func (e *HTTPEnv) ObservationSpace() Space { return e.spaces.ObservationSpace }

func (e *HTTPEnv) ActionSpace() Space { return e.spaces.ActionSpace }

func (e *HTTPEnv) Reset(ctx context.Context) ([]float64, error) {
	if e.closed {
		return nil, ErrEnvClosed
	}
	var resp resetResponse
	req := resetRequest{Seed: e.cfg.Seed, StepTime: e.cfg.StepTime, SimArgs: e.cfg.SimArgs}
	if err := e.do(ctx, http.MethodPost, "/reset", req, &resp); err != nil {
		return nil, fmt.Errorf("simulator reset: %w", err)
	}
	return resp.Obs, nil
}

func (e *HTTPEnv) Step(ctx context.Context, action []float64) (StepResult, error) {
	if e.closed {
		return StepResult{}, ErrEnvClosed
	}
	var resp StepResult
	if err := e.do(ctx, http.MethodPost, "/step", stepRequest{Action: action}, &resp); err != nil {
		return StepResult{}, fmt.Errorf("simulator step: %w", err)
	}
	return resp, nil
}

// Close tells the bridge to stop the simulation. The bridge is released even if
// the request fails; subsequent calls return ErrEnvClosed.
func (e *HTTPEnv) Close() error {
	if e.closed {
		return ErrEnvClosed
	}
	e.closed = true
	if err := e.do(context.Background(), http.MethodPost, "/close", nil, nil); err != nil {
		return fmt.Errorf("simulator close: %w", err)
	}
	return nil
}

func (e *HTTPEnv) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSON parse error: %w", err)
	}
	return nil
}
