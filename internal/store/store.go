// Package store persists portfolio positions.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"MarketInsight/internal/model"
)

// ErrNotFound is returned when a symbol has no stored position.
var ErrNotFound = errors.New("position not found")

// Change actions recorded in the position history.
const (
	ActionPut    = "PUT"
	ActionDelete = "DELETE"
)

// Change records one mutation of a stored position.
type Change struct {
	Symbol      string    `json:"symbol"`
	Action      string    `json:"action"`
	Quantity    float64   `json:"quantity"`
	AverageCost float64   `json:"avgPrice"`
	At          time.Time `json:"at"`
}

// Store holds the user's positions keyed by symbol.
type Store interface {
	List(ctx context.Context) ([]model.Position, error)
	Get(ctx context.Context, symbol string) (*model.Position, error)
	// Put inserts or replaces the position for its symbol.
	Put(ctx context.Context, p model.Position) error
	Delete(ctx context.Context, symbol string) error
	History(ctx context.Context, symbol string) ([]Change, error)
	Close() error
}

var validate = validator.New()

// Normalize upper-cases the symbol and validates the position.
func Normalize(p model.Position) (model.Position, error) {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("invalid position: %w", err)
	}
	return p, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
