package forecast

import (
	"math"

	"MarketInsight/internal/calculator"
)

const (
	backtestWindows  = 20
	backtestHorizon  = 7
	backtestMinCount = 60
	defaultAccuracy  = 65.0
	minAccuracy      = 50.0
	maxAccuracy      = 85.0
)

// Accuracy backtests 7-day direction calls of the trend method over the last
// 20 windows and reports the hit rate in percent, clamped to [50, 85].
// Series shorter than 60 closes report 65.
func Accuracy(closes []float64) float64 {
	n := len(closes)
	if n < backtestMinCount {
		return defaultAccuracy
	}

	correct := 0
	for i := 0; i < backtestWindows; i++ {
		cut := n - (backtestWindows - i + backtestHorizon)
		train := closes[:cut]
		actual := closes[cut+backtestHorizon]
		last := train[len(train)-1]
		predicted := TrendExtrapolate(train, backtestHorizon)
		if (actual > last) == (predicted > last) {
			correct++
		}
	}

	acc := float64(correct) / backtestWindows * 100
	return calculator.Round(math.Min(math.Max(acc, minAccuracy), maxAccuracy), 1)
}
