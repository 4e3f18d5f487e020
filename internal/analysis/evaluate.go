// Package analysis runs the indicator, forecast, scoring and narrative
// pipeline against data fetched from a market-data provider.
package analysis

import (
	"time"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/forecast"
	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
	"MarketInsight/internal/scorer"
)

// UnknownLabel fills sector and industry when no source knows them.
const UnknownLabel = "Unknown"

// Identity is the display information of an instrument.
type Identity struct {
	Symbol string
	Name   string
	Sector string
}

// Evaluate produces the complete analysis of one instrument. It is a pure
// function of its inputs; series must be non-empty.
func Evaluate(id Identity, series *model.PriceSeries, meta *model.InstrumentMetadata, now time.Time) model.StockAnalysis {
	closes := series.Closes()
	current := series.Last()

	ind := calculator.Compute(closes)
	fund := scorer.ResolveFundamentals(meta, current)
	fc := forecast.Run(closes)
	breakdown := scorer.ScoreInstrument(ind, fund, current)

	signal := fc.Signal
	if fc.Error != "" {
		signal = model.SignalHold
	}

	a := model.StockAnalysis{
		Symbol:        id.Symbol,
		Name:          firstNonEmpty(id.Name, metaString(meta, func(m *model.InstrumentMetadata) string { return m.Name }), id.Symbol),
		CurrentPrice:  calculator.Round(current, 2),
		Sector:        firstNonEmpty(metaString(meta, func(m *model.InstrumentMetadata) string { return m.Sector }), id.Sector, UnknownLabel),
		Industry:      firstNonEmpty(metaString(meta, func(m *model.InstrumentMetadata) string { return m.Industry }), UnknownLabel),
		Score:         breakdown.Total,
		Breakdown:     breakdown,
		Signal:        signal,
		Technical:     ind,
		Fundamental:   fund,
		Predictions:   fc.Predictions,
		ModelAccuracy: fc.ModelAccuracy,
		Disclaimer:    forecast.Disclaimer,
		LastUpdated:   now,
	}
	a.Summary = narrative.Summarize(a)
	return a
}

func metaString(meta *model.InstrumentMetadata, get func(*model.InstrumentMetadata) string) string {
	if meta == nil {
		return ""
	}
	return get(meta)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
