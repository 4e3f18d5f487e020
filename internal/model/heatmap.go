package model

import "time"

// Intensity buckets a percent change for heatmap colouring.
type Intensity string

const (
	IntensityStrongPositive Intensity = "strong_positive"
	IntensityPositive       Intensity = "positive"
	IntensitySlightPositive Intensity = "slight_positive"
	IntensityNeutral        Intensity = "neutral"
	IntensitySlightNegative Intensity = "slight_negative"
	IntensityNegative       Intensity = "negative"
	IntensityStrongNegative Intensity = "strong_negative"
)

// Mood summarises market breadth.
type Mood string

const (
	MoodEuphoric Mood = "EUPHORIC"
	MoodBullish  Mood = "BULLISH"
	MoodNeutral  Mood = "NEUTRAL"
	MoodBearish  Mood = "BEARISH"
	MoodFearful  Mood = "FEARFUL"
)

// StockHeat is one instrument tile in a sector.
type StockHeat struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	PctChange float64   `json:"pctChange"`
	Intensity Intensity `json:"intensity"`
}

// SectorHeat aggregates the quotes of one sector.
type SectorHeat struct {
	Name        string      `json:"name"`
	Stocks      []StockHeat `json:"stocks"`
	AvgChange   float64     `json:"avgChange"`
	Advances    int         `json:"advances"`
	Declines    int         `json:"declines"`
	Unchanged   int         `json:"unchanged"`
	TotalStocks int         `json:"totalStocks"`
	Intensity   Intensity   `json:"intensity"`
	TopGainer   *StockHeat  `json:"topGainer,omitempty"`
	TopLoser    *StockHeat  `json:"topLoser,omitempty"`
}

// Breadth counts advancing and declining instruments across the market.
type Breadth struct {
	Advances     int     `json:"advances"`
	Declines     int     `json:"declines"`
	Unchanged    int     `json:"unchanged"`
	Total        int     `json:"total"`
	AdvanceRatio float64 `json:"advanceRatio"`
}

// SectorMove names a sector and its average change.
type SectorMove struct {
	Name   string  `json:"name"`
	Change float64 `json:"change"`
}

// Heatmap is the sector-wise market overview.
type Heatmap struct {
	Sectors         []SectorHeat `json:"sectors"`
	Breadth         Breadth      `json:"marketBreadth"`
	Mood            Mood         `json:"mood"`
	MoodDescription string       `json:"moodDescription"`
	BestSector      SectorMove   `json:"bestSector"`
	WorstSector     SectorMove   `json:"worstSector"`
	LastUpdated     time.Time    `json:"lastUpdated"`
}
