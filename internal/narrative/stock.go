// Package narrative renders analytics results as plain-English text. Every
// template switch is total over its enum.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"MarketInsight/internal/model"
)

// Rupees formats an amount with thousands separators and two decimals.
func Rupees(v float64) string {
	return "₹" + humanize.FormatFloat("#,###.##", v)
}

// Summarize composes the per-instrument summary from a completed analysis.
func Summarize(a model.StockAnalysis) string {
	parts := []string{
		opening(a.Signal, a.Name, a.Symbol, a.CurrentPrice),
		fmt.Sprintf("Currently trading at ₹%.2f.", a.CurrentPrice),
		rsiSentence(a.Technical.RSI),
		trendSentence(a.Technical.MovingAverages.Trend),
		macdSentence(a.Technical.MACD.Trend),
		valuationSentence(a.Fundamental.PE),
		forecastSentence(a.Predictions),
		closing(a.Score),
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func opening(sig model.Signal, name, symbol string, price float64) string {
	switch sig {
	case model.SignalStrongBuy:
		return fmt.Sprintf("🟢 %s (%s) looks excellent right now!", name, symbol)
	case model.SignalBuy:
		return fmt.Sprintf("🟢 %s (%s) shows positive signals.", name, symbol)
	case model.SignalHold:
		return fmt.Sprintf("🟡 %s (%s) is in a wait-and-watch zone.", name, symbol)
	case model.SignalSell:
		return fmt.Sprintf("🔴 %s (%s) has some red flags.", name, symbol)
	case model.SignalStrongSell:
		return fmt.Sprintf("🔴 %s (%s) shows concerning signals.", name, symbol)
	default:
		// no forecast was possible
		return fmt.Sprintf("%s (%s) at ₹%.2f.", name, symbol, price)
	}
}

func rsiSentence(rsi float64) string {
	switch {
	case rsi < 30:
		return fmt.Sprintf("RSI at %s indicates the stock is oversold — could be a buying opportunity.", num(rsi))
	case rsi > 70:
		return fmt.Sprintf("RSI at %s indicates the stock is overbought — caution advised.", num(rsi))
	default:
		return fmt.Sprintf("RSI at %s is in a healthy range.", num(rsi))
	}
}

func trendSentence(trend model.MATrend) string {
	switch trend {
	case model.TrendStrongBullish:
		return "All moving averages confirm a strong uptrend."
	case model.TrendBullish:
		return "Moving averages show a bullish trend."
	case model.TrendNeutral:
		return "Moving averages show no clear direction."
	case model.TrendBearish:
		return "Moving averages indicate a downtrend."
	case model.TrendStrongBearish:
		return "All moving averages confirm a strong downtrend."
	default:
		return "Not enough price history yet to read the long-term trend."
	}
}

func macdSentence(trend model.MACDTrend) string {
	switch trend {
	case model.MACDBullish:
		return "MACD is bullish, suggesting upward momentum."
	case model.MACDBearish:
		return "MACD is bearish, suggesting downward momentum."
	default:
		return "MACD shows no clear momentum yet."
	}
}

func valuationSentence(pe float64) string {
	switch {
	case pe <= 0:
		return "P/E ratio is not available, so valuation could not be assessed."
	case pe < 15:
		return fmt.Sprintf("P/E ratio of %.1f suggests the stock is undervalued.", pe)
	case pe < 25:
		return fmt.Sprintf("P/E ratio of %.1f is in a fair range.", pe)
	case pe < 40:
		return fmt.Sprintf("P/E ratio of %.1f is on the higher side.", pe)
	default:
		return fmt.Sprintf("P/E ratio of %.1f is very high — proceed with caution.", pe)
	}
}

func forecastSentence(preds []model.HorizonForecast) string {
	f := model.Forecast{Predictions: preds}
	month, ok := f.Horizon(30)
	if !ok {
		return ""
	}
	direction := "fall"
	if month.ChangePercent > 0 {
		direction = "rise"
	}
	return fmt.Sprintf("Our AI model predicts a %.1f%% %s to ₹%.2f in 1 month.",
		math.Abs(month.ChangePercent), direction, month.PredictedPrice)
}

func closing(score int) string {
	switch {
	case score >= 75:
		return fmt.Sprintf("Overall Score: %d/100 — Strong pick! ⭐", score)
	case score >= 60:
		return fmt.Sprintf("Overall Score: %d/100 — Good potential.", score)
	case score >= 40:
		return fmt.Sprintf("Overall Score: %d/100 — Average. Watch for developments.", score)
	default:
		return fmt.Sprintf("Overall Score: %d/100 — Weak. Consider alternatives.", score)
	}
}

// num prints a 2-dp value without trailing zeros.
func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
