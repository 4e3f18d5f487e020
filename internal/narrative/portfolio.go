package narrative

import (
	"fmt"
	"math"
	"strings"

	"MarketInsight/internal/model"
)

// EmptyPortfolio is the summary of a portfolio without positions.
const EmptyPortfolio = "Your portfolio is empty. Start investing to see your health score."

// PortfolioHealth renders the health summary of a scored portfolio.
func PortfolioHealth(r model.PortfolioReport) string {
	if r.StockCount == 0 {
		return EmptyPortfolio
	}

	var parts []string
	switch {
	case r.OverallScore >= 75:
		parts = append(parts, fmt.Sprintf("🏆 Excellent! Your portfolio scored %d/100 (Grade %s).", r.OverallScore, r.Grade))
	case r.OverallScore >= 55:
		parts = append(parts, fmt.Sprintf("👍 Good portfolio health: %d/100 (Grade %s).", r.OverallScore, r.Grade))
	case r.OverallScore >= 35:
		parts = append(parts, fmt.Sprintf("⚡ Your portfolio needs attention: %d/100 (Grade %s).", r.OverallScore, r.Grade))
	default:
		parts = append(parts, fmt.Sprintf("⚠️ Portfolio health is concerning: %d/100 (Grade %s).", r.OverallScore, r.Grade))
	}

	parts = append(parts, fmt.Sprintf("You hold %d stocks across %d sectors worth %s.",
		r.StockCount, r.SectorCount, Rupees(r.TotalValue)))

	if r.TotalPnL >= 0 {
		parts = append(parts, fmt.Sprintf("Overall P&L: +%s (%+.2f%%) 🟢", Rupees(r.TotalPnL), r.TotalPnLPercent))
	} else {
		parts = append(parts, fmt.Sprintf("Overall P&L: -%s (%.2f%%) 🔴", Rupees(math.Abs(r.TotalPnL)), r.TotalPnLPercent))
	}

	if s := riskSentence(r.RiskLevel); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func riskSentence(level model.RiskLevel) string {
	switch level {
	case model.RiskLow:
		return "Risk level is LOW — well-managed!"
	case model.RiskModerate:
		return "Risk level is MODERATE — acceptable for most investors."
	case model.RiskHigh:
		return "Risk level is HIGH — consider rebalancing."
	case model.RiskVeryHigh:
		return "Risk level is VERY HIGH — immediate rebalancing recommended!"
	default:
		return ""
	}
}
