// Package collector fetches price history, reference data and quotes from
// market-data providers.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/model"
)

// Fetcher defines the interface for fetching market data. Implementations
// apply their own timeout and rate limit; callers do not retry.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string, days int) (*model.PriceSeries, error)
	FetchMetadata(ctx context.Context, symbol string) (*model.InstrumentMetadata, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}

// ErrUnavailable is wrapped by every fetch failure that leaves the caller
// without data for a symbol.
var ErrUnavailable = errors.New("market data unavailable")

// APIError is a non-200 response from a provider.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func unavailable(provider, symbol string, err error) error {
	if err == nil {
		return fmt.Errorf("%s %s: %w", provider, symbol, ErrUnavailable)
	}
	return fmt.Errorf("%s %s: %w: %w", provider, symbol, ErrUnavailable, err)
}

// newQuote derives change figures from the last and previous close.
func newQuote(symbol string, last, prev float64, bar model.OHLCV, ts time.Time) *model.Quote {
	if prev <= 0 {
		prev = last
	}
	pct := 0.0
	if prev > 0 {
		pct = (last - prev) / prev * 100
	}
	return &model.Quote{
		Symbol:        symbol,
		Last:          calculator.Round(last, 2),
		Change:        calculator.Round(last-prev, 2),
		PctChange:     calculator.Round(pct, 2),
		Open:          calculator.Round(bar.Open, 2),
		High:          calculator.Round(bar.High, 2),
		Low:           calculator.Round(bar.Low, 2),
		PreviousClose: calculator.Round(prev, 2),
		Volume:        bar.Volume,
		Timestamp:     ts,
	}
}

// trimBars keeps the most recent n bars.
func trimBars(bars []model.OHLCV, n int) []model.OHLCV {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
