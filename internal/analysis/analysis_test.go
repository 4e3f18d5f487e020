package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketInsight/internal/catalog"
	"MarketInsight/internal/collector"
	"MarketInsight/internal/model"
	"MarketInsight/internal/narrative"
	"MarketInsight/internal/scorer"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func bars(closes []float64) []model.OHLCV {
	out := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = model.OHLCV{Time: now.AddDate(0, 0, i-len(closes)), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return out
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func newService(f collector.Fetcher) *Service {
	return NewService(f, catalog.Default(), WithClock(func() time.Time { return now }), WithConcurrency(3))
}

func TestEvaluate_RisingSeries(t *testing.T) {
	series := &model.PriceSeries{Symbol: "TCS", Bars: bars(linear(300, 100, 1))}

	a := Evaluate(Identity{Symbol: "TCS", Name: "Tata Consultancy Services Ltd", Sector: "IT"}, series, nil, now)

	assert.Equal(t, 399.0, a.CurrentPrice)
	assert.Equal(t, model.SignalStrongBuy, a.Signal)
	assert.Equal(t, model.TrendStrongBullish, a.Technical.MovingAverages.Trend)
	assert.Len(t, a.Predictions, 3)
	assert.GreaterOrEqual(t, a.Score, 0)
	assert.LessOrEqual(t, a.Score, 100)
	assert.Equal(t, a.Breakdown.Total, a.Score)
	assert.Equal(t, "IT", a.Sector)
	assert.Equal(t, UnknownLabel, a.Industry)
	assert.Equal(t, 458.85, a.Fundamental.High52w, "±15% fallback")
	assert.True(t, strings.HasPrefix(a.Summary, "🟢 Tata Consultancy Services Ltd (TCS) looks excellent right now!"))
	assert.Equal(t, now, a.LastUpdated)
}

func TestEvaluate_ShortSeriesHolds(t *testing.T) {
	series := &model.PriceSeries{Symbol: "X", Bars: bars(linear(10, 50, 1))}
	meta := &model.InstrumentMetadata{Name: "Example", Sector: "Energy", Industry: "Oil"}

	a := Evaluate(Identity{Symbol: "X"}, series, meta, now)

	assert.Equal(t, model.SignalHold, a.Signal)
	assert.Empty(t, a.Predictions)
	assert.Equal(t, "Example", a.Name)
	assert.Equal(t, "Energy", a.Sector)
	assert.Equal(t, "Oil", a.Industry)
	assert.Equal(t, model.TrendInsufficientData, a.Technical.MovingAverages.Trend)
	assert.Contains(t, a.Summary, "wait-and-watch")
}

func TestEvaluate_Idempotent(t *testing.T) {
	series := &model.PriceSeries{Symbol: "TCS", Bars: bars(linear(120, 300, -0.5))}
	first := Evaluate(Identity{Symbol: "TCS"}, series, nil, now)
	second := Evaluate(Identity{Symbol: "TCS"}, series, nil, now)
	assert.Equal(t, first, second)
}

func TestService_Analyze(t *testing.T) {
	f := &collector.MockFetcher{
		History:  map[string][]model.OHLCV{"TCS": bars(linear(300, 100, 1))},
		Metadata: map[string]*model.InstrumentMetadata{"TCS": {TrailingPE: model.Ptr(12), Industry: "IT Services"}},
	}

	a, err := newService(f).Analyze(context.Background(), "TCS")

	require.NoError(t, err)
	assert.Equal(t, "Tata Consultancy Services Ltd", a.Name)
	assert.Equal(t, "IT", a.Sector)
	assert.Equal(t, "IT Services", a.Industry)
	assert.Equal(t, 12.0, a.Fundamental.PE)
	assert.Contains(t, a.Summary, "P/E ratio of 12.0 suggests the stock is undervalued.")
}

func TestService_Analyze_Unavailable(t *testing.T) {
	f := &collector.MockFetcher{Fail: map[string]bool{"TCS": true}}

	_, err := newService(f).Analyze(context.Background(), "TCS")

	assert.ErrorIs(t, err, collector.ErrUnavailable)
}

func TestService_Analyze_EmptyHistory(t *testing.T) {
	f := &collector.MockFetcher{History: map[string][]model.OHLCV{"TCS": {}}}

	_, err := newService(f).Analyze(context.Background(), "TCS")

	assert.ErrorIs(t, err, collector.ErrUnavailable)
}

func TestService_Forecast_TenPoints(t *testing.T) {
	f := &collector.MockFetcher{History: map[string][]model.OHLCV{"ITC": bars(linear(10, 400, 1))}}

	fc, err := newService(f).Forecast(context.Background(), "ITC")

	require.NoError(t, err)
	assert.Equal(t, "ITC", fc.Symbol)
	assert.Empty(t, fc.Predictions)
	assert.NotEmpty(t, fc.Error)
}

func TestService_ScorePortfolio_SinglePosition(t *testing.T) {
	f := &collector.MockFetcher{Quotes: map[string]*model.Quote{"TCS": {Symbol: "TCS", Last: 3100}}}

	r := newService(f).ScorePortfolio(context.Background(), []model.Position{{Symbol: "TCS", Quantity: 10, AverageCost: 3000}})

	assert.Equal(t, 1, r.StockCount)
	assert.Equal(t, 31000.0, r.TotalValue)
	assert.Equal(t, model.RiskHigh, r.RiskLevel)
	require.Len(t, r.Positions, 1)
	assert.InDelta(t, 100.0, r.Positions[0].Weight, 1e-9)
	assert.False(t, r.Positions[0].PriceStale)
	assert.Contains(t, r.Summary, "You hold 1 stocks across 1 sectors worth ₹31,000.00.")
	assert.Equal(t, scorer.PortfolioGrade(r.OverallScore), r.Grade)
}

func TestService_ScorePortfolio_StaleAndUnknownSector(t *testing.T) {
	f := &collector.MockFetcher{
		Quotes:   map[string]*model.Quote{"TCS": {Symbol: "TCS", Last: 3100}},
		Metadata: map[string]*model.InstrumentMetadata{"NEWCO": {Sector: "Media"}},
		Fail:     map[string]bool{"SBIN": true},
	}

	r := newService(f).ScorePortfolio(context.Background(), []model.Position{
		{Symbol: "TCS", Quantity: 10, AverageCost: 3000},
		{Symbol: "SBIN", Quantity: 20, AverageCost: 600},
		{Symbol: "NEWCO", Quantity: 0, AverageCost: 50},
		{Symbol: "XYZ", Quantity: 5, AverageCost: 100},
	})

	require.Len(t, r.Positions, 3)
	sbin := r.Positions[1]
	assert.Equal(t, "SBIN", sbin.Symbol)
	assert.True(t, sbin.PriceStale)
	assert.Equal(t, 600.0, sbin.CurrentPrice)
	assert.Equal(t, "Banking", sbin.Sector)
	assert.Equal(t, OtherSector, r.Positions[2].Sector)
	assert.InDelta(t, 100.0, r.Positions[0].Weight+r.Positions[1].Weight+r.Positions[2].Weight, 1e-9)
}

func TestService_ScorePortfolio_Empty(t *testing.T) {
	r := newService(&collector.MockFetcher{}).ScorePortfolio(context.Background(), nil)

	assert.Equal(t, scorer.GradeNA, r.Grade)
	assert.Equal(t, narrative.EmptyPortfolio, r.Summary)
}

func TestService_Compare(t *testing.T) {
	f := &collector.MockFetcher{
		History: map[string][]model.OHLCV{
			"TCS":  bars(linear(300, 100, 1)),
			"INFY": bars(linear(300, 400, -1)),
		},
		Fail: map[string]bool{"WIPRO": true},
	}

	c := newService(f).Compare(context.Background(), []string{"TCS", "INFY", "WIPRO", "HCLTECH"})

	require.Len(t, c.Entries, MaxCompared)
	assert.Equal(t, "TCS", c.Entries[0].Symbol)
	require.NotNil(t, c.Entries[0].Analysis)
	require.NotNil(t, c.Entries[1].Analysis)
	assert.Greater(t, c.Entries[0].Analysis.Score, c.Entries[1].Analysis.Score)
	assert.Nil(t, c.Entries[2].Analysis)
	assert.NotEmpty(t, c.Entries[2].Error)
	assert.Equal(t, "TCS", c.Winner)
}

func TestService_Screen(t *testing.T) {
	f := &collector.MockFetcher{
		Quotes: map[string]*model.Quote{
			"SUNPHARMA": {Last: 1500, PctChange: 0.5},
			"DRREDDY":   {Last: 6000, PctChange: 2.1},
			"CIPLA":     {Last: 1400, PctChange: -1.2},
			"DIVISLAB":  {Last: 3900, PctChange: 1.0},
			"LUPIN":     {Last: 1600, PctChange: 0},
		},
		Fail: map[string]bool{"AUROPHARMA": true},
	}

	title, rows := newService(f).Screen(context.Background(), "Best pharma stocks")

	assert.Equal(t, "pharma", title)
	require.Len(t, rows, 5)
	var order []string
	for _, r := range rows {
		order = append(order, r.Symbol)
	}
	assert.Equal(t, []string{"DRREDDY", "DIVISLAB", "SUNPHARMA", "LUPIN", "CIPLA"}, order)
	assert.Equal(t, 0, f.Calls("BIOCON"), "only the first six are screened")
}

func TestService_Screen_PopularFallback(t *testing.T) {
	f := &collector.MockFetcher{Price: 100}

	title, rows := newService(f).Screen(context.Background(), "what is cheap today")

	assert.Equal(t, PopularScreen, title)
	assert.Len(t, rows, len(catalog.Default().Popular()))
}

func TestService_Heatmap(t *testing.T) {
	f := &collector.MockFetcher{Price: 100}

	hm := newService(f).Heatmap(context.Background())

	assert.Len(t, hm.Sectors, len(catalog.Default().HeatmapSectors()))
	assert.Equal(t, hm.Breadth.Advances+hm.Breadth.Declines+hm.Breadth.Unchanged, hm.Breadth.Total)
	assert.Equal(t, model.MoodEuphoric, hm.Mood)
	assert.Equal(t, now, hm.LastUpdated)
}

func TestService_SectorDetail(t *testing.T) {
	f := &collector.MockFetcher{Price: 100, Fail: map[string]bool{"TCS": true}}
	svc := newService(f)

	heat, err := svc.SectorDetail(context.Background(), "it")
	require.NoError(t, err)
	assert.Equal(t, "IT", heat.Name)
	assert.Equal(t, len(catalog.Default().HeatmapSectors()[1].Symbols)-1, heat.TotalStocks)

	_, err = svc.SectorDetail(context.Background(), "crypto")
	assert.ErrorIs(t, err, ErrUnknownSector)
}

func TestService_Watch(t *testing.T) {
	f := &collector.MockFetcher{
		History: map[string][]model.OHLCV{
			"TCS":  bars(linear(300, 100, 1)),
			"INFY": bars(linear(300, 500, -1)),
		},
		Quotes: map[string]*model.Quote{"TCS": {Symbol: "TCS", Last: 400, PctChange: 0.25}},
		Fail:   map[string]bool{"WIPRO": true},
	}

	got := newService(f).Watch(context.Background(), []string{"TCS", "WIPRO", "INFY"})
	require.Len(t, got, 3)

	tcs := got[0]
	assert.Equal(t, "Tata Consultancy Services Ltd", tcs.Name)
	assert.Equal(t, 400.0, tcs.Price)
	assert.Equal(t, 0.25, tcs.PctChange)
	assert.Equal(t, 399.0, tcs.High52w)
	assert.Equal(t, 148.0, tcs.Low52w)
	assert.Equal(t, 1.0, tcs.Position52w)
	assert.Equal(t, model.SignalStrongBuy, tcs.Signal)

	assert.Equal(t, "WIPRO", got[1].Symbol)
	assert.NotEmpty(t, got[1].Error)
	assert.Zero(t, got[1].Price)

	infy := got[2]
	assert.Empty(t, infy.Error)
	assert.Equal(t, 201.0, infy.Price)
	assert.Equal(t, -0.5, infy.PctChange)
	assert.Equal(t, 452.0, infy.High52w)
	assert.Equal(t, 0.0, infy.Position52w)
}

func TestService_Watch_ScoresLikeAnalyze(t *testing.T) {
	f := &collector.MockFetcher{
		History: map[string][]model.OHLCV{"TCS": bars(linear(300, 100, 1))},
		Metadata: map[string]*model.InstrumentMetadata{"TCS": {
			TrailingPE:     model.Ptr(10),
			ReturnOnEquity: model.Ptr(0.25),
			RevenueGrowth:  model.Ptr(0.20),
			DebtToEquity:   model.Ptr(20),
			DividendYield:  model.Ptr(0.02),
		}},
	}
	svc := newService(f)

	a, err := svc.Analyze(context.Background(), "TCS")
	require.NoError(t, err)
	got := svc.Watch(context.Background(), []string{"TCS"})

	require.Len(t, got, 1)
	assert.Equal(t, a.Score, got[0].Score)
	assert.Equal(t, a.Signal, got[0].Signal)

	bare, err := newService(&collector.MockFetcher{
		History: map[string][]model.OHLCV{"TCS": bars(linear(300, 100, 1))},
	}).Analyze(context.Background(), "TCS")
	require.NoError(t, err)
	assert.Greater(t, got[0].Score, bare.Score, "fundamentals lift the digest score")
}
