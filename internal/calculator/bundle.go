package calculator

import "MarketInsight/internal/model"

// Compute builds the full indicator bundle for a chronological close series.
// It never fails: indicators without enough history carry their neutral value
// and are listed in Defaulted.
func Compute(closes []float64) model.IndicatorBundle {
	rsi := RSI(closes, RSIPeriod)
	macd := MACD(closes)
	bb := Bollinger(closes, BollingerPeriod)
	ma := MovingAverages(closes)

	b := model.IndicatorBundle{
		RSI:            rsi.Value,
		MACD:           macd.Value,
		Bollinger:      bb.Value,
		MovingAverages: ma.Value,
	}
	if !rsi.Sufficient {
		b.Defaulted = append(b.Defaulted, "rsi")
	}
	if !macd.Sufficient {
		b.Defaulted = append(b.Defaulted, "macd")
	}
	if !bb.Sufficient {
		b.Defaulted = append(b.Defaulted, "bollinger")
	}
	if !ma.Sufficient {
		b.Defaulted = append(b.Defaulted, "movingAverages")
	}
	return b
}
