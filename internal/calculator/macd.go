package calculator

import (
	"math"

	"MarketInsight/internal/model"
)

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// EMA returns the weighted moving average of the last period closes, using
// weights exp(linspace(-1, 0, period)) normalised to sum to one. The weights
// are applied as a convolution, so the newest close receives weights[0].
// Falls back to the plain mean when the series is shorter than period.
func EMA(closes []float64, period int) Result[float64] {
	if len(closes) == 0 {
		return neutral(0.0)
	}
	if period <= 0 || len(closes) < period {
		return neutral(mean(closes))
	}
	w := emaWeights(period)
	n := len(closes)
	v := 0.0
	for k, wk := range w {
		v += wk * closes[n-1-k]
	}
	return computed(v)
}

func emaWeights(period int) []float64 {
	w := make([]float64, period)
	sum := 0.0
	for i := range w {
		x := -1.0
		if period > 1 {
			x += float64(i) / float64(period-1)
		}
		w[i] = math.Exp(x)
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// MACD computes the 12/26 MACD line and a 9-period signal line taken over the
// MACD history. Fewer than 26 closes yield a zero result with trend neutral.
func MACD(closes []float64) Result[model.MACD] {
	if len(closes) < macdSlow {
		return neutral(model.MACD{Trend: model.MACDNeutral})
	}

	// only the last macdSignal points of the history feed the signal line
	start := macdSlow
	if s := len(closes) - macdSignal + 1; s > start {
		start = s
	}
	history := make([]float64, 0, len(closes)-start+1)
	for end := start; end <= len(closes); end++ {
		window := closes[:end]
		history = append(history, EMA(window, macdFast).Value-EMA(window, macdSlow).Value)
	}

	line := history[len(history)-1]
	signal := EMA(history, macdSignal).Value
	trend := model.MACDBearish
	if line > signal {
		trend = model.MACDBullish
	}
	return computed(model.MACD{
		Line:      Round(line, 2),
		Signal:    Round(signal, 2),
		Histogram: Round(line-signal, 2),
		Trend:     trend,
	})
}
