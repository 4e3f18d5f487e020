package model

import "time"

// WatchEntry is one watchlist line of the digest.
type WatchEntry struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PctChange   float64 `json:"pctChange"`
	Score       int     `json:"score"`
	Signal      Signal  `json:"signal"`
	High52w     float64 `json:"fiftyTwoWeekHigh"`
	Low52w      float64 `json:"fiftyTwoWeekLow"`
	Position52w float64 `json:"position52w"`
	Error       string  `json:"error,omitempty"`
}

// Digest is the scheduled market summary pushed to subscribers.
type Digest struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Watchlist   []WatchEntry     `json:"watchlist"`
	Market      *Heatmap         `json:"market,omitempty"`
	Portfolio   *PortfolioReport `json:"portfolio,omitempty"`
}
