package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]Transition
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string][]Transition)
	return nil
}

func (s *MemoryStore) SaveTransition(_ context.Context, t Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	t.Obs = append([]float64(nil), t.Obs...)
	t.NextObs = append([]float64(nil), t.NextObs...)
	s.runs[t.RunID] = append(s.runs[t.RunID], t)
	return nil
}

func (s *MemoryStore) Transitions(_ context.Context, runID string) ([]Transition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Transition, len(s.runs[runID]))
	copy(out, s.runs[runID])
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Episode != out[j].Episode {
			return out[i].Episode < out[j].Episode
		}
		return out[i].Step < out[j].Step
	})
	return out, nil
}
