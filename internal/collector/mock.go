package collector

import (
	"context"
	"sync"
	"time"

	"MarketInsight/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols listed in Fail return ErrUnavailable. Symbols without explicit
// data get a generated gently rising series around Price.
type MockFetcher struct {
	Price    float64
	History  map[string][]model.OHLCV
	Metadata map[string]*model.InstrumentMetadata
	Quotes   map[string]*model.Quote
	Fail     map[string]bool
	// Now stamps generated bars; defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many fetches of any kind were made for symbol.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func (m *MockFetcher) record(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	return m.Fail[symbol]
}

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, days int) (*model.PriceSeries, error) {
	if m.record(symbol) {
		return nil, unavailable(m.Name(), symbol, nil)
	}
	bars, ok := m.History[symbol]
	if !ok {
		bars = generateMockBars(m.Price, days, m.now())
	}
	return &model.PriceSeries{Symbol: symbol, Bars: trimBars(bars, days), FetchedAt: m.now()}, nil
}

func (m *MockFetcher) FetchMetadata(_ context.Context, symbol string) (*model.InstrumentMetadata, error) {
	if m.record(symbol) {
		return nil, unavailable(m.Name(), symbol, nil)
	}
	if meta, ok := m.Metadata[symbol]; ok {
		return meta, nil
	}
	return &model.InstrumentMetadata{Symbol: symbol}, nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	if m.record(symbol) {
		return nil, unavailable(m.Name(), symbol, nil)
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	bars, ok := m.History[symbol]
	if !ok {
		bars = generateMockBars(m.Price, 2, m.now())
	}
	if len(bars) == 0 {
		return nil, unavailable(m.Name(), symbol, nil)
	}
	last := bars[len(bars)-1]
	prev := last.Close
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	return newQuote(symbol, last.Close, prev, last, last.Time), nil
}

func generateMockBars(basePrice float64, count int, now time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   now.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
