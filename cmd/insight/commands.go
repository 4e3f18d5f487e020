package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"MarketInsight/internal/analysis"
	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
)

var askCmd = &cobra.Command{
	Use:     "ask <question>",
	Short:   "Ask a free-text question about Indian stocks",
	Example: `  insight ask "Should I buy RELIANCE?"
  insight ask Compare TCS and INFY`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := app.Router.Answer(cmd.Context(), strings.Join(args, " "))
		text := env.Answer
		if len(env.Suggestions) > 0 {
			text += "\n\nTry: " + strings.Join(env.Suggestions, " | ")
		}
		return render(cmd.OutOrStdout(), env, text)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol>",
	Short: "Full analysis of one instrument",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Service.Analyze(cmd.Context(), strings.ToUpper(args[0]))
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), a, formatAnalysis(a))
	},
}

func formatAnalysis(a *model.StockAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) | %s / %s\n", a.Name, a.Symbol, a.Sector, a.Industry)
	fmt.Fprintf(&b, "Price %s | Score %d/100 (%s) | Signal %s\n\n",
		narrative.Rupees(a.CurrentPrice), a.Score, a.Breakdown.Grade, a.Signal)
	for _, f := range a.Breakdown.Factors {
		fmt.Fprintf(&b, "  %-12s %2d/%-2d %s\n", f.Name, f.Score, f.Max, f.Detail)
	}
	fmt.Fprintf(&b, "\n%s", a.Summary)
	return b.String()
}

var forecastCmd = &cobra.Command{
	Use:   "forecast <symbol>",
	Short: "7, 30 and 90 day price forecast",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])
		f, err := app.Service.Forecast(cmd.Context(), symbol)
		if err != nil {
			return err
		}
		if f.Error != "" {
			return render(cmd.OutOrStdout(), f, fmt.Sprintf("%s: %s", symbol, f.Error))
		}
		return render(cmd.OutOrStdout(), f, narrative.Prediction(app.Catalog.Name(symbol), symbol, f))
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <symbol>...",
	Short: "Latest quotes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			quotes []*model.Quote
			lines  []string
		)
		for _, arg := range args {
			symbol := strings.ToUpper(arg)
			q, err := app.Service.Quote(cmd.Context(), symbol)
			if err != nil {
				lines = append(lines, fmt.Sprintf("%-12s unavailable", symbol))
				continue
			}
			quotes = append(quotes, q)
			lines = append(lines, fmt.Sprintf("%-12s %12s %+8.2f%%", symbol, narrative.Rupees(q.Last), q.PctChange))
		}
		return render(cmd.OutOrStdout(), quotes, strings.Join(lines, "\n"))
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <symbol> <symbol> [symbol]",
	Short: "Compare up to three instruments",
	Args:  cobra.RangeArgs(2, analysis.MaxCompared),
	RunE: func(cmd *cobra.Command, args []string) error {
		for i := range args {
			args[i] = strings.ToUpper(args[i])
		}
		c := app.Service.Compare(cmd.Context(), args)
		return render(cmd.OutOrStdout(), c, narrative.Comparison(c))
	},
}

var screenCmd = &cobra.Command{
	Use:   "screen [sector or theme]",
	Short: "Screen a sector by today's move",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, rows := app.Service.Screen(cmd.Context(), strings.Join(args, " "))
		return render(cmd.OutOrStdout(), rows, narrative.Screening(title, rows))
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [sector]",
	Short: "Sector heatmap and market mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			s, err := app.Service.SectorDetail(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s, narrative.Sector(s))
		}
		h := app.Service.Heatmap(cmd.Context())
		lines := []string{narrative.Heatmap(h), ""}
		for _, s := range h.Sectors {
			lines = append(lines, fmt.Sprintf("%-12s %+6.2f%%  %d/%d up", s.Name, s.AvgChange, s.Advances, s.TotalStocks))
		}
		return render(cmd.OutOrStdout(), h, strings.Join(lines, "\n"))
	},
}
