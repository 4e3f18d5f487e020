package scorer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/model"
)

// Portfolio factor names.
const (
	FactorDiversification = "diversification"
	FactorRisk            = "risk"
	FactorQuality         = "quality"
	FactorBalance         = "balance"
)

// GradeNA is reported for an empty portfolio.
const GradeNA = "N/A"

// PortfolioGrades maps a minimum score to a letter grade, best first.
var PortfolioGrades = []struct {
	MinScore int
	Grade    string
}{
	{85, "A+"},
	{75, "A"},
	{65, "B+"},
	{55, "B"},
	{45, "C+"},
	{35, "C"},
}

// DefaultPortfolioGrade applies below every threshold.
const DefaultPortfolioGrade = "D"

// PortfolioGrade buckets an overall portfolio score.
func PortfolioGrade(score int) string {
	for _, g := range PortfolioGrades {
		if score >= g.MinScore {
			return g.Grade
		}
	}
	return DefaultPortfolioGrade
}

// Classifier supplies the curated instrument sets portfolio scoring depends on.
type Classifier interface {
	IsBlueChip(symbol string) bool
	IsLargeCap(symbol string) bool
	IsVolatileSector(sector string) bool
	CoreSectors() []string
}

// Holding is a position together with its resolved market price and sector.
type Holding struct {
	model.Position
	Price  float64
	Sector string
	// Stale marks a price that fell back to the average cost.
	Stale bool
}

// Valuate prices each holding and computes portfolio weights. Holdings with
// a non-positive quantity are dropped. Weights sum to 100 whenever the total
// market value is positive.
func Valuate(holdings []Holding) []model.PositionValuation {
	vals := make([]model.PositionValuation, 0, len(holdings))
	total := decimal.Zero
	for _, h := range holdings {
		if h.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromFloat(h.Quantity)
		price := decimal.NewFromFloat(h.Price)
		cost := decimal.NewFromFloat(h.AverageCost)

		value := price.Mul(qty)
		invested := cost.Mul(qty)
		pnlPct := 0.0
		if h.AverageCost > 0 {
			pnlPct = price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}

		vals = append(vals, model.PositionValuation{
			Position:     h.Position,
			CurrentPrice: h.Price,
			MarketValue:  value.InexactFloat64(),
			Invested:     invested.InexactFloat64(),
			PnL:          value.Sub(invested).InexactFloat64(),
			PnLPercent:   pnlPct,
			Sector:       h.Sector,
			PriceStale:   h.Stale,
		})
		total = total.Add(value)
	}

	if total.IsPositive() {
		totalF := total.InexactFloat64()
		for i := range vals {
			vals[i].Weight = vals[i].MarketValue / totalF * 100
		}
	}
	return vals
}

// EmptyReport is the assessment of a portfolio without positions.
func EmptyReport(now time.Time) model.PortfolioReport {
	return model.PortfolioReport{
		Grade:            GradeNA,
		SectorAllocation: []model.SectorAllocation{},
		RiskLevel:        model.RiskNone,
		Suggestions:      []string{"Start by buying some stocks to build your portfolio!"},
		Positions:        []model.PositionValuation{},
		LastUpdated:      now,
	}
}

// ScorePortfolio assesses valued positions. The Summary field is left for the
// narrative layer.
func ScorePortfolio(vals []model.PositionValuation, cls Classifier, now time.Time) model.PortfolioReport {
	if len(vals) == 0 {
		return EmptyReport(now)
	}

	alloc := SectorAllocation(vals)
	factors := []model.FactorScore{
		scoreDiversification(vals, len(alloc)),
		scoreRisk(vals, cls),
		scoreQuality(vals, cls),
		scoreBalance(vals, alloc),
	}
	total := 0
	for _, f := range factors {
		total += f.Score
	}
	total = clamp(total, 0, 100)
	grade := PortfolioGrade(total)

	totalValue, totalInvested := decimal.Zero, decimal.Zero
	for _, v := range vals {
		totalValue = totalValue.Add(decimal.NewFromFloat(v.MarketValue))
		totalInvested = totalInvested.Add(decimal.NewFromFloat(v.Invested))
	}
	pnl := totalValue.Sub(totalInvested)
	pnlPct := decimal.Zero
	if totalInvested.IsPositive() {
		pnlPct = pnl.Div(totalInvested).Mul(decimal.NewFromInt(100))
	}

	report := model.PortfolioReport{
		OverallScore: total,
		Grade:        grade,
		Breakdown: model.ScoreBreakdown{
			Factors: factors,
			Total:   total,
			Grade:   grade,
		},
		SectorAllocation: alloc,
		RiskLevel:        RiskLevelFor(factors[1].Score),
		Positions:        vals,
		TotalValue:       totalValue.Round(2).InexactFloat64(),
		TotalInvested:    totalInvested.Round(2).InexactFloat64(),
		TotalPnL:         pnl.Round(2).InexactFloat64(),
		TotalPnLPercent:  pnlPct.Round(2).InexactFloat64(),
		StockCount:       len(vals),
		SectorCount:      len(alloc),
		LastUpdated:      now,
	}
	report.Suggestions = Suggestions(vals, alloc, factors[2].Score, cls.CoreSectors())
	return report
}

// SectorAllocation groups positions by sector in first-seen order.
func SectorAllocation(vals []model.PositionValuation) []model.SectorAllocation {
	index := make(map[string]int)
	var out []model.SectorAllocation
	total := 0.0
	for _, v := range vals {
		total += v.MarketValue
		i, ok := index[v.Sector]
		if !ok {
			i = len(out)
			index[v.Sector] = i
			out = append(out, model.SectorAllocation{Sector: v.Sector})
		}
		out[i].Value += v.MarketValue
		out[i].Symbols = append(out[i].Symbols, v.Symbol)
	}
	for i := range out {
		if total > 0 {
			out[i].Weight = calculator.Round(out[i].Value/total*100, 1)
		}
		out[i].Value = calculator.Round(out[i].Value, 2)
	}
	return out
}

// RiskLevelFor buckets the risk sub-score.
func RiskLevelFor(risk int) model.RiskLevel {
	switch {
	case risk >= 20:
		return model.RiskLow
	case risk >= 14:
		return model.RiskModerate
	case risk >= 8:
		return model.RiskHigh
	default:
		return model.RiskVeryHigh
	}
}

func scoreDiversification(vals []model.PositionValuation, sectors int) model.FactorScore {
	n := len(vals)
	var score int
	switch {
	case n >= 15:
		score = 12
	case n >= 10:
		score = 10
	case n >= 7:
		score = 8
	case n >= 5:
		score = 6
	case n >= 3:
		score = 4
	default:
		score = 2
	}
	switch {
	case sectors >= 6:
		score += 13
	case sectors >= 4:
		score += 10
	case sectors >= 3:
		score += 7
	case sectors >= 2:
		score += 5
	default:
		score += 2
	}
	return model.FactorScore{
		Name:   FactorDiversification,
		Score:  min(score, FactorMax),
		Max:    FactorMax,
		Detail: fmt.Sprintf("%d stocks across %d sectors", n, sectors),
	}
}

// scoreRisk starts at 15; higher means lower risk.
func scoreRisk(vals []model.PositionValuation, cls Classifier) model.FactorScore {
	score := 15

	maxWeight := 0.0
	losers := 0
	volatileWeight := 0.0
	for _, v := range vals {
		maxWeight = max(maxWeight, v.Weight)
		if v.PnLPercent < -10 {
			losers++
		}
		if cls.IsVolatileSector(v.Sector) {
			volatileWeight += v.Weight
		}
	}

	switch {
	case maxWeight > 50:
		score -= 8
	case maxWeight > 30:
		score -= 4
	case maxWeight > 20:
		score -= 2
	default:
		score += 3
	}

	loserRatio := float64(losers) / float64(len(vals))
	switch {
	case loserRatio > 0.5:
		score -= 5
	case loserRatio > 0.3:
		score -= 3
	case loserRatio < 0.1:
		score += 3
	}

	switch {
	case volatileWeight > 40:
		score -= 4
	case volatileWeight > 25:
		score -= 2
	case volatileWeight < 10:
		score += 2
	}

	return model.FactorScore{
		Name:   FactorRisk,
		Score:  clamp(score, 0, FactorMax),
		Max:    FactorMax,
		Detail: fmt.Sprintf("Max single stock weight: %.1f%%, %d positions in loss > 10%%", maxWeight, losers),
	}
}

func scoreQuality(vals []model.PositionValuation, cls Classifier) model.FactorScore {
	var blueWeight, largeWeight float64
	for _, v := range vals {
		if cls.IsBlueChip(v.Symbol) {
			blueWeight += v.Weight
		}
		if cls.IsLargeCap(v.Symbol) {
			largeWeight += v.Weight
		}
	}

	score := 12
	switch {
	case blueWeight >= 50:
		score += 10
	case blueWeight >= 30:
		score += 7
	case blueWeight >= 15:
		score += 4
	}
	switch {
	case largeWeight >= 70:
		score += 3
	case largeWeight >= 50:
		score += 2
	}

	return model.FactorScore{
		Name:   FactorQuality,
		Score:  clamp(score, 0, FactorMax),
		Max:    FactorMax,
		Detail: fmt.Sprintf("%.1f%% in blue-chips, %.1f%% in large-caps", blueWeight, largeWeight),
	}
}

// scoreBalance rewards weights close to equal-weight and penalises a dominant sector.
func scoreBalance(vals []model.PositionValuation, alloc []model.SectorAllocation) model.FactorScore {
	n := float64(len(vals))
	ideal := 100 / n
	deviation := 0.0
	for _, v := range vals {
		d := v.Weight - ideal
		if d < 0 {
			d = -d
		}
		deviation += d
	}
	deviation /= n

	score := 15
	switch {
	case deviation < 5:
		score += 10
	case deviation < 10:
		score += 7
	case deviation < 20:
		score += 3
	case deviation > 30:
		score -= 5
	}

	maxSector := 0.0
	for _, a := range sectorWeights(vals, alloc) {
		maxSector = max(maxSector, a)
	}
	switch {
	case maxSector > 50:
		score -= 5
	case maxSector > 35:
		score -= 2
	case maxSector < 25:
		score += 3
	}

	return model.FactorScore{
		Name:   FactorBalance,
		Score:  clamp(score, 0, FactorMax),
		Max:    FactorMax,
		Detail: fmt.Sprintf("Avg weight deviation: %.1f%%, Max sector: %.1f%%", deviation, maxSector),
	}
}

// sectorWeights sums unrounded position weights per sector, in allocation order.
func sectorWeights(vals []model.PositionValuation, alloc []model.SectorAllocation) []float64 {
	sums := make(map[string]float64, len(alloc))
	for _, v := range vals {
		sums[v.Sector] += v.Weight
	}
	out := make([]float64, 0, len(alloc))
	for _, a := range alloc {
		out = append(out, sums[a.Sector])
	}
	return out
}
