package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketInsight/internal/model"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "positions.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStore_CRUD(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			require.NoError(t, s.Put(ctx, model.Position{Symbol: "tcs", Quantity: 10, AverageCost: 3500}))
			require.NoError(t, s.Put(ctx, model.Position{Symbol: "INFY", Quantity: 5, AverageCost: 1500}))

			p, err := s.Get(ctx, "TCS")
			require.NoError(t, err)
			assert.Equal(t, model.Position{Symbol: "TCS", Quantity: 10, AverageCost: 3500}, *p)

			require.NoError(t, s.Put(ctx, model.Position{Symbol: "TCS", Quantity: 12, AverageCost: 3400}))
			list, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []model.Position{
				{Symbol: "INFY", Quantity: 5, AverageCost: 1500},
				{Symbol: "TCS", Quantity: 12, AverageCost: 3400},
			}, list)

			require.NoError(t, s.Delete(ctx, "infy"))
			_, err = s.Get(ctx, "INFY")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "INFY"), ErrNotFound)
		})
	}
}

func TestStore_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		pos  model.Position
	}{
		{"zero quantity", model.Position{Symbol: "TCS", Quantity: 0, AverageCost: 10}},
		{"negative cost", model.Position{Symbol: "TCS", Quantity: 1, AverageCost: -1}},
		{"missing symbol", model.Position{Symbol: "  ", Quantity: 1}},
	}
	for name, s := range stores(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				assert.Error(t, s.Put(context.Background(), tt.pos))
			})
		}
	}
}

func TestStore_History(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, model.Position{Symbol: "SBIN", Quantity: 3, AverageCost: 600}))
			require.NoError(t, s.Put(ctx, model.Position{Symbol: "ITC", Quantity: 1, AverageCost: 400}))
			require.NoError(t, s.Delete(ctx, "SBIN"))

			changes, err := s.History(ctx, "sbin")
			require.NoError(t, err)
			require.Len(t, changes, 2)
			assert.Equal(t, ActionDelete, changes[0].Action)
			assert.Equal(t, ActionPut, changes[1].Action)
			assert.Equal(t, 3.0, changes[1].Quantity)

			all, err := s.History(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, s.Put(ctx, model.Position{Symbol: "HDFCBANK", Quantity: 2, AverageCost: 1650.5}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, nil)
	require.NoError(t, err)
	defer s.Close()

	p, err := s.Get(ctx, "HDFCBANK")
	require.NoError(t, err)
	assert.Equal(t, 1650.5, p.AverageCost)

	changes, err := s.History(ctx, "HDFCBANK")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, int64(1700000000), changes[0].At.Unix())
}
