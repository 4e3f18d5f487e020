package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the stored portfolio's health report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		positions, err := app.Store.List(cmd.Context())
		if err != nil {
			return err
		}
		r := app.Service.ScorePortfolio(cmd.Context(), positions)
		return render(cmd.OutOrStdout(), r, formatReport(r))
	},
}

var portfolioAddCmd = &cobra.Command{
	Use:     "add <symbol> <quantity> <average cost>",
	Short:   "Add or replace a position",
	Example: "  insight portfolio add TCS 10 3450.5",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		cost, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("average cost: %w", err)
		}
		p := model.Position{Symbol: strings.ToUpper(args[0]), Quantity: qty, AverageCost: cost}
		if err := app.Store.Put(cmd.Context(), p); err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), p, fmt.Sprintf("Saved %s: %s @ %s", p.Symbol, args[1], narrative.Rupees(cost)))
	},
}

var portfolioRemoveCmd = &cobra.Command{
	Use:     "remove <symbol>",
	Aliases: []string{"rm"},
	Short:   "Remove a position",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])
		if err := app.Store.Delete(cmd.Context(), symbol); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", symbol)
		return err
	},
}

var portfolioHistoryCmd = &cobra.Command{
	Use:   "history [symbol]",
	Short: "List position changes, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := ""
		if len(args) == 1 {
			symbol = args[0]
		}
		changes, err := app.Store.History(cmd.Context(), symbol)
		if err != nil {
			return err
		}
		lines := make([]string, 0, len(changes))
		for _, c := range changes {
			lines = append(lines, fmt.Sprintf("%s  %-6s %-12s %10g @ %s",
				c.At.Format("2006-01-02 15:04"), c.Action, c.Symbol, c.Quantity, narrative.Rupees(c.AverageCost)))
		}
		return render(cmd.OutOrStdout(), changes, strings.Join(lines, "\n"))
	},
}

func init() {
	portfolioCmd.AddCommand(portfolioAddCmd, portfolioRemoveCmd, portfolioHistoryCmd)
}

func formatReport(r model.PortfolioReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio Health: %d/100 (%s) | Risk: %s\n", r.OverallScore, r.Grade, r.RiskLevel)
	if r.StockCount > 0 {
		fmt.Fprintf(&b, "Value %s | Invested %s | P&L %s (%+.2f%%)\n\n",
			narrative.Rupees(r.TotalValue), narrative.Rupees(r.TotalInvested),
			narrative.Rupees(r.TotalPnL), r.TotalPnLPercent)
		for _, p := range r.Positions {
			stale := ""
			if p.PriceStale {
				stale = " (stale price)"
			}
			fmt.Fprintf(&b, "  %-12s %8g × %-12s %12s %+7.2f%%  %5.1f%%  %s%s\n",
				p.Symbol, p.Quantity, narrative.Rupees(p.CurrentPrice), narrative.Rupees(p.MarketValue),
				p.PnLPercent, p.Weight, p.Sector, stale)
		}
		b.WriteString("\n")
		for _, f := range r.Breakdown.Factors {
			fmt.Fprintf(&b, "  %-14s %2d/%-2d %s\n", f.Name, f.Score, f.Max, f.Detail)
		}
		b.WriteString("\n")
	}
	b.WriteString(r.Summary)
	for _, s := range r.Suggestions {
		b.WriteString("\n• " + s)
	}
	return b.String()
}
