package forecast

import (
	"fmt"
	"math"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/model"
)

// MinPoints is the shortest series the ensemble will forecast from.
const MinPoints = 30

// Disclaimer accompanies every forecast shown to a user.
const Disclaimer = "AI predictions are for informational purposes only. Not financial advice."

// Horizon is a forecast horizon in trading days.
type Horizon struct {
	Days  int
	Label string
}

// Horizons are the fixed forecast horizons, shortest first.
var Horizons = []Horizon{
	{Days: 7, Label: "1 Week"},
	{Days: 30, Label: "1 Month"},
	{Days: 90, Label: "3 Months"},
}

// Ensemble weights.
const (
	weightTrend    = 0.40
	weightSmoothed = 0.35
	weightMomentum = 0.25
)

// Run forecasts every horizon from a chronological close series. A series
// shorter than MinPoints yields a Forecast with Error set and no predictions.
func Run(closes []float64) model.Forecast {
	if len(closes) < MinPoints {
		return model.Forecast{
			Predictions: []model.HorizonForecast{},
			Error:       fmt.Sprintf("insufficient data: %d closes, need at least %d", len(closes), MinPoints),
		}
	}

	current := closes[len(closes)-1]
	vol := Volatility(closes)

	preds := make([]model.HorizonForecast, 0, len(Horizons))
	for _, h := range Horizons {
		preds = append(preds, Predict(closes, h, vol))
	}

	return model.Forecast{
		CurrentPrice:  calculator.Round(current, 2),
		Predictions:   preds,
		Signal:        SignalFor(preds),
		ModelAccuracy: Accuracy(closes),
	}
}

// Predict combines the three methods for one horizon and attaches a
// confidence band of vol*sqrt(days)*current around the ensemble value.
func Predict(closes []float64, h Horizon, vol float64) model.HorizonForecast {
	current := closes[len(closes)-1]
	ensemble := weightTrend*TrendExtrapolate(closes, h.Days) +
		weightSmoothed*SmoothedExtrapolate(closes, h.Days) +
		weightMomentum*MomentumExtrapolate(closes, h.Days)

	band := vol * math.Sqrt(float64(h.Days)) * current
	pct := 0.0
	if current != 0 {
		pct = (ensemble - current) / current * 100
	}
	dir := model.DirectionDown
	if ensemble > current {
		dir = model.DirectionUp
	}

	return model.HorizonForecast{
		Horizon:        h.Label,
		Days:           h.Days,
		PredictedPrice: calculator.Round(ensemble, 2),
		CurrentPrice:   calculator.Round(current, 2),
		ChangePercent:  calculator.Round(pct, 2),
		ConfidenceLow:  calculator.Round(math.Max(ensemble-band, 0), 2),
		ConfidenceHigh: calculator.Round(ensemble+band, 2),
		Direction:      dir,
	}
}

// SignalFor maps the number of upward horizons to an overall signal.
func SignalFor(preds []model.HorizonForecast) model.Signal {
	ups := 0
	for _, p := range preds {
		if p.Direction == model.DirectionUp {
			ups++
		}
	}
	switch {
	case ups == 3:
		return model.SignalStrongBuy
	case ups >= 2:
		return model.SignalBuy
	case ups == 0:
		return model.SignalStrongSell
	default:
		return model.SignalHold
	}
}
