// Package scorer turns indicators, fundamentals and portfolio valuations into
// bounded, explainable 0-100 scores.
package scorer

import (
	"fmt"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/model"
)

// FactorMax is the ceiling of every sub-score.
const FactorMax = 25

// Factor names used in instrument breakdowns.
const (
	FactorRSI         = "rsi"
	FactorTrend       = "trend"
	FactorValue       = "value"
	FactorFundamental = "fundamental"
)

var trendScores = map[model.MATrend]int{
	model.TrendStrongBullish:    25,
	model.TrendBullish:          20,
	model.TrendNeutral:          15,
	model.TrendBearish:          8,
	model.TrendStrongBearish:    5,
	model.TrendInsufficientData: 12,
}

// InstrumentGrades maps a minimum score to a qualitative grade, best first.
var InstrumentGrades = []struct {
	MinScore int
	Grade    string
}{
	{75, "strong"},
	{60, "good"},
	{40, "average"},
}

// DefaultInstrumentGrade applies below every threshold.
const DefaultInstrumentGrade = "weak"

// InstrumentGrade buckets an overall instrument score.
func InstrumentGrade(score int) string {
	for _, g := range InstrumentGrades {
		if score >= g.MinScore {
			return g.Grade
		}
	}
	return DefaultInstrumentGrade
}

// ResolveFundamentals applies the documented fallbacks for missing metadata:
// the 52-week band becomes the current price ±15% and every other missing
// number becomes 0. Fractions are converted to percent.
func ResolveFundamentals(meta *model.InstrumentMetadata, current float64) model.Fundamentals {
	if meta == nil {
		meta = &model.InstrumentMetadata{}
	}
	return model.Fundamentals{
		PE:            calculator.Round(model.Float(meta.TrailingPE, 0), 2),
		MarketCap:     model.Float(meta.MarketCap, 0),
		DividendYield: calculator.Round(model.Float(meta.DividendYield, 0)*100, 2),
		High52w:       calculator.Round(model.Float(meta.High52w, current*1.15), 2),
		Low52w:        calculator.Round(model.Float(meta.Low52w, current*0.85), 2),
		BookValue:     calculator.Round(model.Float(meta.BookValue, 0), 2),
		DebtToEquity:  calculator.Round(model.Float(meta.DebtToEquity, 0), 2),
		ROE:           calculator.Round(model.Float(meta.ReturnOnEquity, 0)*100, 2),
		RevenueGrowth: calculator.Round(model.Float(meta.RevenueGrowth, 0)*100, 2),
	}
}

// ScoreInstrument computes the four instrument sub-scores and their clamped sum.
func ScoreInstrument(ind model.IndicatorBundle, f model.Fundamentals, current float64) model.ScoreBreakdown {
	factors := []model.FactorScore{
		scoreRSI(ind.RSI),
		scoreTrend(ind.MovingAverages.Trend),
		scoreValue(f, current),
		scoreFundamental(f),
	}
	total := 0
	for _, fs := range factors {
		total += fs.Score
	}
	total = clamp(total, 0, 100)
	return model.ScoreBreakdown{
		Factors: factors,
		Total:   total,
		Grade:   InstrumentGrade(total),
	}
}

// scoreRSI rewards the neutral band and treats oversold as an opportunity.
func scoreRSI(rsi float64) model.FactorScore {
	var score int
	var detail string
	switch {
	case rsi >= 40 && rsi <= 60:
		score, detail = 25, "ideal range"
	case rsi >= 30 && rsi <= 70:
		score, detail = 20, "healthy range"
	case rsi < 30:
		score, detail = 22, "oversold"
	default:
		score, detail = 10, "overbought"
	}
	return model.FactorScore{
		Name:   FactorRSI,
		Score:  score,
		Max:    FactorMax,
		Detail: fmt.Sprintf("RSI %.2f, %s", rsi, detail),
	}
}

func scoreTrend(trend model.MATrend) model.FactorScore {
	score, ok := trendScores[trend]
	if !ok {
		score = trendScores[model.TrendInsufficientData]
	}
	return model.FactorScore{Name: FactorTrend, Score: score, Max: FactorMax, Detail: string(trend)}
}

// scoreValue adds a P/E tier to a bonus that grows as the price nears its 52-week low.
func scoreValue(f model.Fundamentals, current float64) model.FactorScore {
	var pe int
	switch {
	case f.PE <= 0:
		pe = 8
	case f.PE < 15:
		pe = 15
	case f.PE < 25:
		pe = 12
	case f.PE < 40:
		pe = 8
	default:
		pe = 4
	}

	pos := calculator.Position52Week(current, f.High52w, f.Low52w)
	bonus := int((1 - pos) * 10)

	return model.FactorScore{
		Name:   FactorValue,
		Score:  min(pe+bonus, FactorMax),
		Max:    FactorMax,
		Detail: fmt.Sprintf("P/E %.1f, %.0f%% of 52-week range", f.PE, pos*100),
	}
}

func scoreFundamental(f model.Fundamentals) model.FactorScore {
	score := 12
	switch {
	case f.ROE > 15:
		score += 5
	case f.ROE > 10:
		score += 3
	}
	switch {
	case f.RevenueGrowth > 10:
		score += 4
	case f.RevenueGrowth > 5:
		score += 2
	}
	if f.DividendYield > 1 {
		score += 2
	}
	switch {
	case f.DebtToEquity < 50:
		score += 2
	case f.DebtToEquity > 150:
		score -= 3
	}
	return model.FactorScore{
		Name:   FactorFundamental,
		Score:  clamp(score, 0, FactorMax),
		Max:    FactorMax,
		Detail: fmt.Sprintf("ROE %.1f%%, revenue growth %.1f%%, D/E %.1f", f.ROE, f.RevenueGrowth, f.DebtToEquity),
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
