package calculator

import (
	"github.com/markcheno/go-talib"

	"MarketInsight/internal/model"
)

// MAPeriods are the simple moving average lookbacks reported in a bundle.
var MAPeriods = []int{5, 10, 20, 50, 200}

// SMA returns the simple moving average of the last period closes.
func SMA(closes []float64, period int) Result[float64] {
	if period <= 0 || len(closes) < period {
		return neutral(0.0)
	}
	if period == 1 {
		return computed(closes[len(closes)-1])
	}
	out := talib.Sma(closes[len(closes)-period:], period)
	return computed(out[len(out)-1])
}

// MovingAverages computes the SMA set and classifies the trend of the last
// close against sma20, sma50 and sma200. The result is only Sufficient when
// all three trend inputs are present.
func MovingAverages(closes []float64) Result[model.MovingAverages] {
	raw := make(map[int]float64, len(MAPeriods))
	var ma model.MovingAverages
	for _, p := range MAPeriods {
		r := SMA(closes, p)
		if !r.Sufficient {
			continue
		}
		raw[p] = r.Value
		v := model.Ptr(Round(r.Value, 2))
		switch p {
		case 5:
			ma.SMA5 = v
		case 10:
			ma.SMA10 = v
		case 20:
			ma.SMA20 = v
		case 50:
			ma.SMA50 = v
		case 200:
			ma.SMA200 = v
		}
	}

	s20, ok20 := raw[20]
	s50, ok50 := raw[50]
	s200, ok200 := raw[200]
	if !ok20 || !ok50 || !ok200 {
		ma.Trend = model.TrendInsufficientData
		return neutral(ma)
	}
	ma.Trend = classifyTrend(closes[len(closes)-1], s20, s50, s200)
	return computed(ma)
}

// classifyTrend checks the buckets in order; the first match wins.
func classifyTrend(cur, s20, s50, s200 float64) model.MATrend {
	switch {
	case cur > s20 && s20 > s50 && s50 > s200:
		return model.TrendStrongBullish
	case cur > s50 && s50 > s200:
		return model.TrendBullish
	case cur < s20 && s20 < s50 && s50 < s200:
		return model.TrendStrongBearish
	case cur < s50 && s50 < s200:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}
