package scorer

import (
	"fmt"
	"math"
	"strings"

	"MarketInsight/internal/model"
)

const maxSuggestions = 8

// Suggestions lists the portfolio problems worth acting on, most structural
// first, capped at 8. A portfolio that trips no rule gets one affirming line.
func Suggestions(vals []model.PositionValuation, alloc []model.SectorAllocation, quality int, core []string) []string {
	var out []string

	if len(vals) < 5 {
		out = append(out, "📌 Add more stocks — aim for at least 8-10 for good diversification.")
	}
	if len(alloc) < 3 {
		if missing := missingSectors(alloc, core); len(missing) > 0 {
			out = append(out, fmt.Sprintf("📌 Diversify into: %s sectors.", strings.Join(missing, ", ")))
		}
	}

	for _, v := range vals {
		if v.Weight > 30 {
			out = append(out, fmt.Sprintf("⚠️ %s is %.1f%% of your portfolio. Consider reducing to under 20%%.", v.Symbol, v.Weight))
		}
	}
	for _, a := range alloc {
		if a.Weight > 40 {
			out = append(out, fmt.Sprintf("⚠️ %s sector is %.1f%% — too concentrated. Diversify into other sectors.", a.Sector, a.Weight))
		}
	}

	if quality < 12 {
		out = append(out, "💎 Consider adding blue-chip stocks (RELIANCE, TCS, HDFCBANK) for stability.")
	}

	losers := 0
	for _, v := range vals {
		if v.PnLPercent < -20 && losers < 2 {
			losers++
			out = append(out, fmt.Sprintf("📉 %s is down %.1f%%. Review if fundamentals still hold or consider cutting losses.", v.Symbol, math.Abs(v.PnLPercent)))
		}
	}
	winners := 0
	for _, v := range vals {
		if v.PnLPercent > 50 && v.Weight > 15 && winners < 2 {
			winners++
			out = append(out, fmt.Sprintf("🎯 %s is up %.1f%%. Consider booking partial profits to lock in gains.", v.Symbol, v.PnLPercent))
		}
	}

	if len(out) == 0 {
		return []string{"✅ Your portfolio looks well-balanced! Keep monitoring regularly."}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// missingSectors returns up to three core sectors absent from alloc.
func missingSectors(alloc []model.SectorAllocation, core []string) []string {
	held := make(map[string]bool, len(alloc))
	for _, a := range alloc {
		held[a.Sector] = true
	}
	var missing []string
	for _, s := range core {
		if !held[s] && len(missing) < 3 {
			missing = append(missing, s)
		}
	}
	return missing
}
