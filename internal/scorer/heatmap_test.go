package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketInsight/internal/model"
)

func quote(symbol string, last, pct float64) NamedQuote {
	return NamedQuote{Name: symbol + " Ltd", Quote: model.Quote{Symbol: symbol, Last: last, PctChange: pct, Change: last * pct / 100}}
}

func TestScoreSector(t *testing.T) {
	s := ScoreSector(SectorQuotes{Sector: "IT", Quotes: []NamedQuote{
		quote("TCS", 3500, 1.2),
		quote("INFY", 1500, -0.02),
		quote("WIPRO", 0, 5),
		quote("HCLTECH", 1400, -3.5),
	}})

	assert.Equal(t, 3, s.TotalStocks, "zero-priced quotes are skipped")
	assert.Equal(t, 1, s.Advances)
	assert.Equal(t, 1, s.Declines)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, -0.77, s.AvgChange)
	assert.Equal(t, model.IntensityNegative, s.Intensity)
	require.NotNil(t, s.TopGainer)
	assert.Equal(t, "TCS", s.TopGainer.Symbol)
	assert.Equal(t, "HCLTECH", s.TopLoser.Symbol)
	assert.Equal(t, model.IntensityStrongNegative, s.TopLoser.Intensity)
}

func TestBuildHeatmap(t *testing.T) {
	hm := BuildHeatmap([]SectorQuotes{
		{Sector: "Banking", Quotes: []NamedQuote{quote("SBIN", 800, 2.5), quote("PNB", 100, 0.8)}},
		{Sector: "IT", Quotes: []NamedQuote{quote("TCS", 3500, -1.5)}},
		{Sector: "Empty"},
	}, now)

	require.Len(t, hm.Sectors, 3)
	assert.Equal(t, "Banking", hm.Sectors[0].Name)
	assert.Equal(t, "IT", hm.Sectors[2].Name)
	assert.Equal(t, model.SectorMove{Name: "Banking", Change: 1.65}, hm.BestSector)
	assert.Equal(t, model.SectorMove{Name: "IT", Change: -1.5}, hm.WorstSector)
	assert.Equal(t, 3, hm.Breadth.Total)
	assert.Equal(t, 0.667, hm.Breadth.AdvanceRatio)
	assert.Equal(t, model.MoodBullish, hm.Mood)
}

func TestBuildHeatmap_NoData(t *testing.T) {
	hm := BuildHeatmap(nil, now)
	assert.Equal(t, model.MoodNeutral, hm.Mood)
	assert.Equal(t, "N/A", hm.BestSector.Name)
}

func TestMoodFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  model.Mood
	}{
		{0.9, model.MoodEuphoric}, {0.7, model.MoodEuphoric},
		{0.6, model.MoodBullish}, {0.5, model.MoodNeutral},
		{0.3, model.MoodBearish}, {0.1, model.MoodFearful},
	}
	for _, tt := range tests {
		m, desc := MoodFor(tt.ratio)
		assert.Equal(t, tt.want, m)
		assert.NotEmpty(t, desc)
	}
}

func TestStockIntensity(t *testing.T) {
	assert.Equal(t, model.IntensityStrongPositive, StockIntensity(3))
	assert.Equal(t, model.IntensityPositive, StockIntensity(1))
	assert.Equal(t, model.IntensitySlightPositive, StockIntensity(0))
	assert.Equal(t, model.IntensitySlightNegative, StockIntensity(-1))
	assert.Equal(t, model.IntensityNegative, StockIntensity(-3))
	assert.Equal(t, model.IntensityStrongNegative, StockIntensity(-3.01))
}
