package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"MarketInsight/internal/model"
)

// MemoryStore keeps positions in process memory. It is used when no SQLite
// path is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	positions map[string]model.Position
	changes   []Change
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[string]model.Position), now: time.Now}
}

func (m *MemoryStore) List(_ context.Context) ([]model.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, symbol string) (*model.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.positions[normalizeSymbol(symbol)]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) Put(_ context.Context, p model.Position) error {
	p, err := Normalize(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[p.Symbol] = p
	m.changes = append(m.changes, Change{p.Symbol, ActionPut, p.Quantity, p.AverageCost, m.now()})
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.positions[symbol]; !ok {
		return ErrNotFound
	}
	delete(m.positions, symbol)
	m.changes = append(m.changes, Change{Symbol: symbol, Action: ActionDelete, At: m.now()})
	return nil
}

// History returns the changes for symbol, newest first. An empty symbol
// returns every change.
func (m *MemoryStore) History(_ context.Context, symbol string) ([]Change, error) {
	symbol = normalizeSymbol(symbol)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Change
	for i := len(m.changes) - 1; i >= 0; i-- {
		if symbol == "" || m.changes[i].Symbol == symbol {
			out = append(out, m.changes[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
