package calculator

// RSIPeriod is the default RSI lookback.
const RSIPeriod = 14

// RSI computes the relative strength index from the simple average gain and
// loss of the trailing period deltas. Returns 50 when fewer than period+1
// closes exist and 100 when there were no down days.
func RSI(closes []float64, period int) Result[float64] {
	if period <= 0 || len(closes) < period+1 {
		return neutral(50.0)
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return computed(100.0)
	}
	rs := avgGain / avgLoss
	return computed(Round(100.0-100.0/(1.0+rs), 2))
}
