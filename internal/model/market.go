package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the daily history of one instrument, oldest bar first.
// It is treated as immutable once fetched.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes returns a fresh slice of closing prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent close, or 0 for an empty series.
func (s *PriceSeries) Last() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// InstrumentMetadata is the static reference data of an instrument. Every numeric
// field is optional; consumers apply their own documented fallbacks.
type InstrumentMetadata struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name,omitempty"`
	Sector         string   `json:"sector,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	TrailingPE     *float64 `json:"trailingPE,omitempty"`
	MarketCap      *float64 `json:"marketCap,omitempty"`
	DividendYield  *float64 `json:"dividendYield,omitempty"` // fraction, 0.012 = 1.2%
	High52w        *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	Low52w         *float64 `json:"fiftyTwoWeekLow,omitempty"`
	BookValue      *float64 `json:"bookValue,omitempty"`
	DebtToEquity   *float64 `json:"debtToEquity,omitempty"`
	ReturnOnEquity *float64 `json:"returnOnEquity,omitempty"` // fraction
	RevenueGrowth  *float64 `json:"revenueGrowth,omitempty"`  // fraction
}

// Quote is a point-in-time price snapshot for an instrument.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Last          float64   `json:"last"`
	Change        float64   `json:"change"`
	PctChange     float64   `json:"pctChange"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previousClose"`
	Volume        float64   `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Float returns *p, or def when p is nil.
func Float(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 {
	return &v
}
