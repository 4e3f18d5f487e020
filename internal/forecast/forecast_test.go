package forecast

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketInsight/internal/model"
)

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func randomWalk(seed int64, n int) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	p := 1200.0
	for i := range out {
		p *= 1 + (r.Float64()-0.5)*0.05
		out[i] = p
	}
	return out
}

func TestRun_InsufficientData(t *testing.T) {
	f := Run(linear(10, 100, 1))
	assert.Empty(t, f.Predictions)
	assert.NotEmpty(t, f.Error)
	assert.Equal(t, model.Signal(""), f.Signal)
}

func TestRun_MinimumSeries(t *testing.T) {
	f := Run(linear(MinPoints, 100, 1))
	assert.Empty(t, f.Error)
	require.Len(t, f.Predictions, 3)
	assert.Equal(t, []int{7, 30, 90}, []int{f.Predictions[0].Days, f.Predictions[1].Days, f.Predictions[2].Days})
	assert.Equal(t, "1 Month", f.Predictions[1].Horizon)
	assert.Equal(t, defaultAccuracy, f.ModelAccuracy)
}

func TestRun_RisingSeries(t *testing.T) {
	f := Run(linear(300, 100, 1))
	assert.Equal(t, model.SignalStrongBuy, f.Signal)
	assert.Equal(t, 399.0, f.CurrentPrice)
	for _, p := range f.Predictions {
		assert.Equal(t, model.DirectionUp, p.Direction)
		assert.Greater(t, p.ChangePercent, 0.0)
	}
	assert.Equal(t, maxAccuracy, f.ModelAccuracy)
}

func TestRun_FallingSeries(t *testing.T) {
	f := Run(linear(200, 1000, -2))
	assert.Equal(t, model.SignalStrongSell, f.Signal)
}

func TestRun_ConfidenceWidensWithHorizon(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		f := Run(randomWalk(seed, 250))
		require.Len(t, f.Predictions, 3)
		var widths []float64
		for _, p := range f.Predictions {
			assert.LessOrEqual(t, p.ConfidenceLow, p.PredictedPrice)
			assert.GreaterOrEqual(t, p.ConfidenceHigh, p.PredictedPrice)
			widths = append(widths, p.ConfidenceHigh-p.ConfidenceLow)
		}
		assert.Less(t, widths[0], widths[1])
		assert.Less(t, widths[1], widths[2])
	}
}

func TestRun_AccuracyBounds(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		acc := Run(randomWalk(seed, 120)).ModelAccuracy
		assert.GreaterOrEqual(t, acc, minAccuracy)
		assert.LessOrEqual(t, acc, maxAccuracy)
	}
}

func TestPredict_LowerBoundFloorsAtZero(t *testing.T) {
	closes := linear(40, 100, 0)
	p := Predict(closes, Horizon{Days: 90, Label: "3 Months"}, 0.5)
	assert.Equal(t, 0.0, p.ConfidenceLow)
	assert.Equal(t, model.DirectionDown, p.Direction)
}

func TestTrendExtrapolate(t *testing.T) {
	// exact line: evaluated at window+days, one step past last index + days
	closes := linear(120, 50, 1)
	assert.InDelta(t, 169+8, TrendExtrapolate(closes, 7), 1e-9)
	assert.InDelta(t, 10.0, TrendExtrapolate(linear(40, 10, 0), 30), 1e-9)
}

func TestSmoothedExtrapolate(t *testing.T) {
	assert.InDelta(t, 10.0, SmoothedExtrapolate(linear(40, 10, 0), 30), 1e-9)
	closes := linear(100, 100, 1)
	assert.Greater(t, SmoothedExtrapolate(closes, 7), closes[len(closes)-1])
}

func TestMomentumExtrapolate(t *testing.T) {
	closes := linear(40, 100, 0)
	closes[len(closes)-20] = 100
	closes[len(closes)-1] = 110
	// momentum 0.1 * 30/20 * 0.7
	assert.InDelta(t, 121.55, MomentumExtrapolate(closes, 30), 1e-9)
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, fallbackVolatility, Volatility(linear(61, 100, 1)))
	assert.Equal(t, 0.0, Volatility(linear(100, 100, 0)))

	alt := make([]float64, 100)
	for i := range alt {
		alt[i] = 100
		if i%2 == 1 {
			alt[i] = 110
		}
	}
	assert.Greater(t, Volatility(alt), 0.05)
}

func TestSignalFor(t *testing.T) {
	up := model.HorizonForecast{Direction: model.DirectionUp}
	down := model.HorizonForecast{Direction: model.DirectionDown}
	tests := []struct {
		preds []model.HorizonForecast
		want  model.Signal
	}{
		{[]model.HorizonForecast{up, up, up}, model.SignalStrongBuy},
		{[]model.HorizonForecast{up, down, up}, model.SignalBuy},
		{[]model.HorizonForecast{down, up, down}, model.SignalHold},
		{[]model.HorizonForecast{down, down, down}, model.SignalStrongSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalFor(tt.preds))
	}
}

func TestAccuracy_ShortSeries(t *testing.T) {
	assert.Equal(t, defaultAccuracy, Accuracy(linear(59, 100, 1)))
}
