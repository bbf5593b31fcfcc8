// Package memory provides an in-process store.Store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/cashflow-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]store.ScenarioRecord
	runs      []store.RunRecord // insertion order
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		scenarios: make(map[string]store.ScenarioRecord),
	}
}

func (m *Memory) SaveScenario(_ context.Context, rec store.ScenarioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := m.scenarios[rec.ID]; ok {
		rec.Version = existing.Version + 1
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.Version = 1
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.scenarios[rec.ID] = rec
	return nil
}

func (m *Memory) GetScenario(_ context.Context, id string) (*store.ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.scenarios[id]
	if !ok {
		return nil, store.ErrScenarioNotFound
	}
	return &rec, nil
}

func (m *Memory) ListScenarios(_ context.Context) ([]store.ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.ScenarioRecord, 0, len(m.scenarios))
	for _, rec := range m.scenarios {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteScenario removes the scenario and every run recorded against it.
func (m *Memory) DeleteScenario(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[id]; !ok {
		return store.ErrScenarioNotFound
	}
	delete(m.scenarios, id)

	kept := m.runs[:0]
	for _, r := range m.runs {
		if r.ScenarioID != id {
			kept = append(kept, r)
		}
	}
	m.runs = kept
	return nil
}

func (m *Memory) SaveRun(_ context.Context, rec store.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.runs = append(m.runs, rec)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*store.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.runs {
		if m.runs[i].ID == id {
			rec := m.runs[i]
			return &rec, nil
		}
	}
	return nil, store.ErrRunNotFound
}

func (m *Memory) ListRuns(_ context.Context, scenarioID string) ([]store.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []store.RunRecord{}
	for i := len(m.runs) - 1; i >= 0; i-- {
		if scenarioID == "" || m.runs[i].ScenarioID == scenarioID {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
