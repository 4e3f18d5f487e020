package narrative

import (
	"fmt"
	"strings"

	"MarketInsight/internal/forecast"
	"MarketInsight/internal/model"
)

// HelpText lists what the assistant understands.
const HelpText = "I can help you with Indian stocks! Try asking:\n\n" +
	"• \"Should I buy RELIANCE?\"\n" +
	"• \"Predict TCS price\"\n" +
	"• \"Compare INFY and TCS\"\n" +
	"• \"Best bank stocks\"\n" +
	"• \"Analyze SBIN\"\n" +
	"• \"Is HDFCBANK overvalued?\"\n\n" +
	"I cover %d Indian stocks with live data!"

// Help renders the capability list for a catalog of the given size.
func Help(instruments int) string {
	return fmt.Sprintf(HelpText, instruments)
}

// Prediction renders a forecast as a multi-line answer.
func Prediction(name, symbol string, f model.Forecast) string {
	lines := []string{
		fmt.Sprintf("📊 **AI Price Prediction for %s (%s)**\n", name, symbol),
		fmt.Sprintf("Current Price: ₹%s\n", num(f.CurrentPrice)),
	}
	for _, p := range f.Predictions {
		arrow := "📉"
		if p.Direction == model.DirectionUp {
			arrow = "📈"
		}
		lines = append(lines, fmt.Sprintf("%s **%s**: ₹%s (%+.1f%%) [Range: ₹%s - ₹%s]",
			arrow, p.Horizon, num(p.PredictedPrice), p.ChangePercent,
			num(p.ConfidenceLow), num(p.ConfidenceHigh)))
	}

	signal := string(f.Signal)
	if signal == "" {
		signal = "N/A"
	}
	lines = append(lines,
		fmt.Sprintf("\nSignal: **%s**", signal),
		fmt.Sprintf("Model Accuracy: %s%%", num(f.ModelAccuracy)),
		"\n⚠️ "+forecast.Disclaimer,
	)
	return strings.Join(lines, "\n")
}

// Comparison renders ranked comparison entries and the declared winner.
func Comparison(c model.Comparison) string {
	lines := []string{"⚖️ **Stock Comparison**\n"}
	var winner *model.StockAnalysis
	for _, e := range c.Entries {
		if e.Analysis == nil {
			lines = append(lines, fmt.Sprintf("❌ %s: Error fetching data", e.Symbol))
			continue
		}
		a := e.Analysis
		if a.Symbol == c.Winner {
			winner = a
		}
		lines = append(lines,
			fmt.Sprintf("\n**%s (%s)**", a.Name, a.Symbol),
			fmt.Sprintf("  Price: ₹%s | Score: %d/100 | Signal: %s", num(a.CurrentPrice), a.Score, signalOrNA(a.Signal)),
			fmt.Sprintf("  P/E: %s | RSI: %s", num(a.Fundamental.PE), num(a.Technical.RSI)),
		)
		f := model.Forecast{Predictions: a.Predictions}
		if month, ok := f.Horizon(30); ok {
			lines = append(lines, fmt.Sprintf("  1-Month Prediction: ₹%s (%+.1f%%)", num(month.PredictedPrice), month.ChangePercent))
		}
	}
	if winner != nil {
		lines = append(lines, fmt.Sprintf("\n🏆 **Winner: %s** (Score: %d/100)", winner.Symbol, winner.Score))
	}
	return strings.Join(lines, "\n")
}

// Screening renders a ranked quote list under a sector heading.
func Screening(title string, rows []model.ScreenResult) string {
	lines := []string{fmt.Sprintf("📋 **Top %s Stocks**\n", titleCase(title))}
	for i, r := range rows {
		arrow := "🔴"
		if r.PctChange > 0 {
			arrow = "🟢"
		}
		lines = append(lines, fmt.Sprintf("%d. %s **%s** (%s) — ₹%.2f (%+.2f%%)",
			i+1, arrow, r.Symbol, r.Name, r.Price, r.PctChange))
	}
	return strings.Join(lines, "\n")
}

func signalOrNA(s model.Signal) string {
	if s == "" {
		return "N/A"
	}
	return string(s)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
