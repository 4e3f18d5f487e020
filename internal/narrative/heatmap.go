package narrative

import (
	"fmt"
	"strings"

	"MarketInsight/internal/model"
)

// Heatmap renders a one-paragraph market overview.
func Heatmap(h model.Heatmap) string {
	parts := []string{
		fmt.Sprintf("Market mood: %s. %s", h.Mood, h.MoodDescription),
		fmt.Sprintf("%d advancing, %d declining, %d unchanged.",
			h.Breadth.Advances, h.Breadth.Declines, h.Breadth.Unchanged),
	}
	if len(h.Sectors) > 0 {
		parts = append(parts,
			fmt.Sprintf("Best sector: %s (%+.2f%%).", h.BestSector.Name, h.BestSector.Change),
			fmt.Sprintf("Worst sector: %s (%+.2f%%).", h.WorstSector.Name, h.WorstSector.Change),
		)
	}
	return strings.Join(parts, " ")
}

// Sector renders one sector's breadth followed by its stocks.
func Sector(s model.SectorHeat) string {
	lines := []string{
		fmt.Sprintf("**%s** avg %+.2f%% | %d up, %d down, %d unchanged",
			s.Name, s.AvgChange, s.Advances, s.Declines, s.Unchanged),
	}
	if s.TopGainer != nil && s.TopLoser != nil {
		lines = append(lines, fmt.Sprintf("Top gainer: %s (%+.2f%%) | Top loser: %s (%+.2f%%)",
			s.TopGainer.Symbol, s.TopGainer.PctChange, s.TopLoser.Symbol, s.TopLoser.PctChange))
	}
	for _, st := range s.Stocks {
		lines = append(lines, fmt.Sprintf("• %s %s (%+.2f%%)", st.Symbol, Rupees(st.Price), st.PctChange))
	}
	return strings.Join(lines, "\n")
}
