package model

// Signal is the overall trade stance derived from the forecast horizons.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalHold       Signal = "HOLD"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// Direction of a predicted move relative to the current price.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// HorizonForecast is the ensemble prediction for one horizon.
type HorizonForecast struct {
	Horizon        string    `json:"horizon"`
	Days           int       `json:"days"`
	PredictedPrice float64   `json:"predictedPrice"`
	CurrentPrice   float64   `json:"currentPrice"`
	ChangePercent  float64   `json:"changePercent"`
	ConfidenceLow  float64   `json:"confidenceLow"`
	ConfidenceHigh float64   `json:"confidenceHigh"`
	Direction      Direction `json:"direction"`
}

// Forecast holds the 7/30/90-day predictions. When Error is set, Predictions is empty.
type Forecast struct {
	Symbol        string            `json:"symbol,omitempty"`
	CurrentPrice  float64           `json:"currentPrice"`
	Predictions   []HorizonForecast `json:"predictions"`
	Signal        Signal            `json:"signal,omitempty"`
	ModelAccuracy float64           `json:"modelAccuracy"`
	Error         string            `json:"error,omitempty"`
}

// Horizon returns the prediction for the given number of days.
func (f *Forecast) Horizon(days int) (HorizonForecast, bool) {
	for _, p := range f.Predictions {
		if p.Days == days {
			return p, true
		}
	}
	return HorizonForecast{}, false
}

// FactorScore is one bounded, named component of a composite score.
type FactorScore struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Max    int    `json:"maxScore"`
	Detail string `json:"details,omitempty"`
}

// ScoreBreakdown is a composite score together with the factors it was summed from.
type ScoreBreakdown struct {
	Factors []FactorScore `json:"factors"`
	Total   int           `json:"total"`
	Grade   string        `json:"grade"`
}

// Factor returns the named factor.
func (b ScoreBreakdown) Factor(name string) (FactorScore, bool) {
	for _, f := range b.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorScore{}, false
}
