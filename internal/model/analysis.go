package model

import "time"

// Fundamentals is InstrumentMetadata with every fallback resolved. Percent-style
// fields are expressed in percent here.
type Fundamentals struct {
	PE            float64 `json:"pe"`
	MarketCap     float64 `json:"marketCap"`
	DividendYield float64 `json:"dividendYield"`
	High52w       float64 `json:"fiftyTwoWeekHigh"`
	Low52w        float64 `json:"fiftyTwoWeekLow"`
	BookValue     float64 `json:"bookValue"`
	DebtToEquity  float64 `json:"debtToEquity"`
	ROE           float64 `json:"roe"`
	RevenueGrowth float64 `json:"revenueGrowth"`
}

// StockAnalysis is the complete per-instrument result.
type StockAnalysis struct {
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	CurrentPrice  float64           `json:"currentPrice"`
	Sector        string            `json:"sector"`
	Industry      string            `json:"industry"`
	Score         int               `json:"score"`
	Breakdown     ScoreBreakdown    `json:"scoreBreakdown"`
	Signal        Signal            `json:"signal"`
	Summary       string            `json:"summary"`
	Technical     IndicatorBundle   `json:"technical"`
	Fundamental   Fundamentals      `json:"fundamental"`
	Predictions   []HorizonForecast `json:"predictions"`
	ModelAccuracy float64           `json:"modelAccuracy"`
	Disclaimer    string            `json:"disclaimer"`
	LastUpdated   time.Time         `json:"lastUpdated"`
}
