package calculator

import (
	"errors"
	"math"

	"MarketInsight/internal/model"
)

const tradingDaysPerYear = 252

// Range52Week scans the most recent 252 bars and returns the high and low.
func Range52Week(bars []model.OHLCV) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	start := len(bars) - tradingDaysPerYear
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// Position52Week returns where current sits within [low, high], clamped to
// 0..1. A degenerate band yields 0.5.
func Position52Week(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos))
}
