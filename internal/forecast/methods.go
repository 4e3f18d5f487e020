package forecast

import (
	"math"

	"github.com/markcheno/go-talib"
)

const (
	trendWindow = 90

	smoothAlpha = 0.3
	smoothBeta  = 0.1

	momentumLookback = 20
	momentumDamping  = 0.7

	volatilityWindow   = 60
	fallbackVolatility = 0.02
)

func trailing(closes []float64, window int) []float64 {
	if len(closes) < window {
		return closes
	}
	return closes[len(closes)-window:]
}

// TrendExtrapolate fits an ordinary least squares line to the trailing 90
// closes (or fewer) against their index and evaluates it at window+days.
func TrendExtrapolate(closes []float64, days int) float64 {
	recent := trailing(closes, trendWindow)
	n := float64(len(recent))
	if len(recent) == 0 {
		return 0
	}

	var sx, sy, sxx, sxy float64
	for i, y := range recent {
		x := float64(i)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return recent[len(recent)-1]
	}
	m := (n*sxy - sx*sy) / denom
	b := (sy - m*sx) / n
	return m*(n+float64(days)) + b
}

// SmoothedExtrapolate runs one pass of Holt double exponential smoothing over
// the trailing 90 closes and projects level + trend*days.
func SmoothedExtrapolate(closes []float64, days int) float64 {
	recent := trailing(closes, trendWindow)
	if len(recent) == 0 {
		return 0
	}

	level := recent[0]
	trend := (recent[len(recent)-1] - recent[0]) / float64(len(recent))
	for _, price := range recent {
		next := smoothAlpha*price + (1-smoothAlpha)*(level+trend)
		trend = smoothBeta*(next-level) + (1-smoothBeta)*trend
		level = next
	}
	return level + trend*float64(days)
}

// MomentumExtrapolate scales the 20-day rate of change by days/20, damped by
// 0.7^(days/30), and applies it to the last close.
func MomentumExtrapolate(closes []float64, days int) float64 {
	if len(closes) == 0 {
		return 0
	}
	current := closes[len(closes)-1]
	momentum := 0.0
	if len(closes) >= momentumLookback {
		base := closes[len(closes)-momentumLookback]
		if base != 0 {
			momentum = (current - base) / base
		}
	}
	damping := math.Pow(momentumDamping, float64(days)/30)
	return current * (1 + momentum*(float64(days)/momentumLookback)*damping)
}

// Volatility is the population standard deviation of the day-over-day
// relative changes across the trailing 60 closes. Series of 61 closes or
// fewer use a fixed 0.02.
func Volatility(closes []float64) float64 {
	if len(closes) <= volatilityWindow+1 {
		return fallbackVolatility
	}
	recent := trailing(closes, volatilityWindow)
	returns := make([]float64, len(recent)-1)
	for i := 1; i < len(recent); i++ {
		returns[i-1] = (recent[i] - recent[i-1]) / recent[i-1]
	}
	out := talib.StdDev(returns, len(returns), 1.0)
	return out[len(out)-1]
}
