package notifier

import (
	"fmt"
	"html"
	"strings"

	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
)

// HTML escapes text for Telegram's HTML parse mode and turns **bold** runs
// into <b> tags. An unpaired marker is kept literally.
func HTML(text string) string {
	parts := strings.Split(html.EscapeString(text), "**")
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			switch {
			case i == len(parts)-1 && i%2 == 1:
				b.WriteString("**")
			case i%2 == 1:
				b.WriteString("<b>")
			default:
				b.WriteString("</b>")
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

// FormatEnvelope renders an assistant answer with its follow-up suggestions.
func FormatEnvelope(env model.Envelope) string {
	var b strings.Builder
	b.WriteString(HTML(env.Answer))
	if len(env.Suggestions) > 0 {
		b.WriteString("\n\n💡 <i>Try:</i>")
		for _, s := range env.Suggestions {
			b.WriteString("\n• " + html.EscapeString(s))
		}
	}
	return b.String()
}

// FormatPortfolio renders a portfolio report for chat.
func FormatPortfolio(r model.PortfolioReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💼 <b>Portfolio Health: %d/100 (%s)</b>\n\n", r.OverallScore, r.Grade))
	b.WriteString(HTML(r.Summary))
	if r.StockCount > 0 {
		b.WriteString("\n\n")
		for _, p := range r.Positions {
			flag := ""
			if p.PriceStale {
				flag = " ⏳"
			}
			b.WriteString(fmt.Sprintf("%s %s × %s = %s (%+.2f%%)%s\n",
				pnlDot(p.PnL), p.Symbol, trimFloat(p.Quantity), narrative.Rupees(p.MarketValue), p.PnLPercent, flag))
		}
	}
	if len(r.Suggestions) > 0 {
		b.WriteString("\n<b>Suggestions</b>")
		for _, s := range r.Suggestions {
			b.WriteString("\n• " + html.EscapeString(s))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDigest renders the scheduled digest.
func FormatDigest(d model.Digest) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📬 <b>Market Digest</b> | %s\n", d.GeneratedAt.Format("2006-01-02 15:04")))

	if m := d.Market; m != nil {
		b.WriteString(fmt.Sprintf("\nMood: <b>%s</b>\n%s\n", m.Mood, html.EscapeString(m.MoodDescription)))
		b.WriteString(fmt.Sprintf("Advances %d | Declines %d | Unchanged %d\n",
			m.Breadth.Advances, m.Breadth.Declines, m.Breadth.Unchanged))
		if m.BestSector.Name != "" {
			b.WriteString(fmt.Sprintf("Best: %s (%+.2f%%) | Worst: %s (%+.2f%%)\n",
				html.EscapeString(m.BestSector.Name), m.BestSector.Change,
				html.EscapeString(m.WorstSector.Name), m.WorstSector.Change))
		}
	}

	if len(d.Watchlist) > 0 {
		b.WriteString("\n👀 <b>Watchlist</b>\n")
		for _, e := range d.Watchlist {
			if e.Error != "" {
				b.WriteString(fmt.Sprintf("❌ %s: data unavailable\n", e.Symbol))
				continue
			}
			b.WriteString(fmt.Sprintf("%s <b>%s</b> %s (%+.2f%%) | Score %d/100 %s | 52w %.0f%%\n",
				pnlDot(e.PctChange), e.Symbol, narrative.Rupees(e.Price), e.PctChange,
				e.Score, e.Signal, e.Position52w*100))
		}
	}

	if p := d.Portfolio; p != nil && p.StockCount > 0 {
		b.WriteString(fmt.Sprintf("\n💼 <b>Portfolio</b> %d/100 (%s)\n", p.OverallScore, p.Grade))
		b.WriteString(fmt.Sprintf("Value %s | P&amp;L %s (%+.2f%%)\n",
			narrative.Rupees(p.TotalValue), narrative.Rupees(p.TotalPnL), p.TotalPnLPercent))
	}
	return strings.TrimRight(b.String(), "\n")
}

func pnlDot(v float64) string {
	switch {
	case v > 0:
		return "🟢"
	case v < 0:
		return "🔴"
	default:
		return "⚪"
	}
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
