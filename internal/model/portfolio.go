package model

import "time"

// Position is a holding as recorded by the persistence layer.
type Position struct {
	Symbol      string  `json:"symbol" validate:"required,max=20"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	AverageCost float64 `json:"avgPrice" validate:"gte=0"`
}

// PositionValuation is a Position priced against the market. Weight is only
// meaningful relative to the position set it was computed with.
type PositionValuation struct {
	Position
	CurrentPrice float64 `json:"currentPrice"`
	MarketValue  float64 `json:"value"`
	Invested     float64 `json:"invested"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnlPercent"`
	Sector       string  `json:"sector"`
	Weight       float64 `json:"weight"`
	// PriceStale is set when the live quote was unavailable and the average cost was used.
	PriceStale bool `json:"priceStale,omitempty"`
}

// SectorAllocation aggregates portfolio value per sector.
type SectorAllocation struct {
	Sector  string   `json:"sector"`
	Value   float64  `json:"value"`
	Weight  float64  `json:"weight"`
	Symbols []string `json:"stocks"`
}

// RiskLevel buckets the risk sub-score.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// PortfolioReport is the health assessment of a position list.
type PortfolioReport struct {
	OverallScore     int                 `json:"overallScore"`
	Grade            string              `json:"grade"`
	Breakdown        ScoreBreakdown      `json:"breakdown"`
	SectorAllocation []SectorAllocation  `json:"sectorAllocation"`
	RiskLevel        RiskLevel           `json:"riskLevel"`
	Suggestions      []string            `json:"suggestions"`
	Summary          string              `json:"summary"`
	Positions        []PositionValuation `json:"positions"`
	TotalValue       float64             `json:"totalValue"`
	TotalInvested    float64             `json:"totalInvested"`
	TotalPnL         float64             `json:"totalPnl"`
	TotalPnLPercent  float64             `json:"totalPnlPercent"`
	StockCount       int                 `json:"stockCount"`
	SectorCount      int                 `json:"sectorCount"`
	LastUpdated      time.Time           `json:"lastUpdated"`
}
