package scorer

import (
	"sort"
	"time"

	"MarketInsight/internal/calculator"
	"MarketInsight/internal/model"
)

// unchangedBand is the absolute percent move still counted as unchanged.
const unchangedBand = 0.05

// NamedQuote is a quote with the display name of its instrument.
type NamedQuote struct {
	Name  string
	Quote model.Quote
}

// SectorQuotes holds the quotes fetched for one heatmap sector.
type SectorQuotes struct {
	Sector string
	Quotes []NamedQuote
}

var moods = []struct {
	MinRatio    float64
	Mood        model.Mood
	Description string
}{
	{0.7, model.MoodEuphoric, "Markets are on fire! Strong buying across sectors."},
	{0.55, model.MoodBullish, "Positive sentiment with broad-based buying."},
	{0.45, model.MoodNeutral, "Mixed signals. Markets are indecisive."},
	{0.3, model.MoodBearish, "Selling pressure across multiple sectors."},
}

const fearfulDescription = "Heavy selling! Markets in panic mode."

// MoodFor maps the market advance ratio to a mood.
func MoodFor(ratio float64) (model.Mood, string) {
	for _, m := range moods {
		if ratio >= m.MinRatio {
			return m.Mood, m.Description
		}
	}
	return model.MoodFearful, fearfulDescription
}

// StockIntensity buckets a single percent change.
func StockIntensity(pct float64) model.Intensity {
	switch {
	case pct >= 3:
		return model.IntensityStrongPositive
	case pct >= 1:
		return model.IntensityPositive
	case pct >= 0:
		return model.IntensitySlightPositive
	case pct >= -1:
		return model.IntensitySlightNegative
	case pct >= -3:
		return model.IntensityNegative
	default:
		return model.IntensityStrongNegative
	}
}

// SectorIntensity buckets a sector's average percent change.
func SectorIntensity(avg float64) model.Intensity {
	switch {
	case avg >= 2:
		return model.IntensityStrongPositive
	case avg >= 0.5:
		return model.IntensityPositive
	case avg >= -0.5:
		return model.IntensityNeutral
	case avg >= -2:
		return model.IntensityNegative
	default:
		return model.IntensityStrongNegative
	}
}

// ScoreSector aggregates one sector. Quotes without a last price are ignored.
func ScoreSector(sq SectorQuotes) model.SectorHeat {
	heat := model.SectorHeat{Name: sq.Sector, Stocks: []model.StockHeat{}}
	sum := 0.0
	for _, nq := range sq.Quotes {
		q := nq.Quote
		if q.Last == 0 {
			continue
		}
		switch {
		case q.PctChange > unchangedBand:
			heat.Advances++
		case q.PctChange < -unchangedBand:
			heat.Declines++
		default:
			heat.Unchanged++
		}
		sum += q.PctChange
		heat.Stocks = append(heat.Stocks, model.StockHeat{
			Symbol:    q.Symbol,
			Name:      nq.Name,
			Price:     calculator.Round(q.Last, 2),
			Change:    calculator.Round(q.Change, 2),
			PctChange: calculator.Round(q.PctChange, 2),
			Intensity: StockIntensity(q.PctChange),
		})
	}
	heat.TotalStocks = len(heat.Stocks)

	sort.SliceStable(heat.Stocks, func(i, j int) bool {
		return heat.Stocks[i].PctChange > heat.Stocks[j].PctChange
	})

	avg := 0.0
	if heat.TotalStocks > 0 {
		avg = sum / float64(heat.TotalStocks)
		top := heat.Stocks[0]
		bottom := heat.Stocks[heat.TotalStocks-1]
		heat.TopGainer, heat.TopLoser = &top, &bottom
	}
	heat.AvgChange = calculator.Round(avg, 2)
	heat.Intensity = SectorIntensity(avg)
	return heat
}

// BuildHeatmap aggregates every sector, orders sectors best to worst and
// derives market breadth and mood.
func BuildHeatmap(sectors []SectorQuotes, now time.Time) model.Heatmap {
	hm := model.Heatmap{Sectors: make([]model.SectorHeat, 0, len(sectors)), LastUpdated: now}
	for _, sq := range sectors {
		s := ScoreSector(sq)
		hm.Breadth.Advances += s.Advances
		hm.Breadth.Declines += s.Declines
		hm.Breadth.Unchanged += s.Unchanged
		hm.Breadth.Total += s.TotalStocks
		hm.Sectors = append(hm.Sectors, s)
	}
	sort.SliceStable(hm.Sectors, func(i, j int) bool {
		return hm.Sectors[i].AvgChange > hm.Sectors[j].AvgChange
	})

	ratio := 0.5
	if hm.Breadth.Total > 0 {
		ratio = float64(hm.Breadth.Advances) / float64(hm.Breadth.Total)
	}
	hm.Breadth.AdvanceRatio = calculator.Round(ratio, 3)
	hm.Mood, hm.MoodDescription = MoodFor(ratio)

	hm.BestSector = model.SectorMove{Name: "N/A"}
	hm.WorstSector = model.SectorMove{Name: "N/A"}
	if n := len(hm.Sectors); n > 0 {
		hm.BestSector = model.SectorMove{Name: hm.Sectors[0].Name, Change: hm.Sectors[0].AvgChange}
		hm.WorstSector = model.SectorMove{Name: hm.Sectors[n-1].Name, Change: hm.Sectors[n-1].AvgChange}
	}
	return hm
}
