package calculator

import (
	"github.com/markcheno/go-talib"

	"MarketInsight/internal/model"
)

const (
	BollingerPeriod = 20
	bollingerWidth  = 2.0
)

// Bollinger computes SMA ± 2 population standard deviations over the trailing
// period and locates the last close within the envelope.
func Bollinger(closes []float64, period int) Result[model.Bollinger] {
	if period < 2 || len(closes) < period {
		return neutral(model.Bollinger{Position: model.BandMiddle})
	}

	upperBand, middleBand, lowerBand := talib.BBands(closes[len(closes)-period:], period, bollingerWidth, bollingerWidth, talib.SMA)
	last := period - 1
	upper, middle, lower := upperBand[last], middleBand[last], lowerBand[last]

	current := closes[len(closes)-1]
	var pos model.BandPosition
	switch {
	case current > upper:
		pos = model.BandAboveUpper
	case current < lower:
		pos = model.BandBelowLower
	case current > middle:
		pos = model.BandUpperHalf
	default:
		pos = model.BandLowerHalf
	}

	return computed(model.Bollinger{
		Upper:    Round(upper, 2),
		Middle:   Round(middle, 2),
		Lower:    Round(lower, 2),
		Position: pos,
	})
}
