package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketInsight/internal/analysis"
	"MarketInsight/internal/assistant"
	"MarketInsight/internal/catalog"
	"MarketInsight/internal/collector"
	"MarketInsight/internal/model"
	"MarketInsight/internal/store"
)

type fakeCache struct {
	invalidated []string
	err         error
}

func (f *fakeCache) Invalidate(_ context.Context, symbol string) error {
	f.invalidated = append(f.invalidated, symbol)
	return f.err
}

type fixture struct {
	router *gin.Engine
	store  *store.MemoryStore
	cache  *fakeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	closes := make([]model.OHLCV, 300)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range closes {
		c := 100 + float64(i)
		closes[i] = model.OHLCV{Time: t0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	f := &collector.MockFetcher{
		Price:   100,
		History: map[string][]model.OHLCV{"TCS": closes},
		Fail:    map[string]bool{"WIPRO": true},
	}
	svc := analysis.NewService(f, catalog.Default())
	router := assistant.NewRouter(svc, catalog.Default(), nil)

	fx := &fixture{store: store.NewMemoryStore(), cache: &fakeCache{}}
	fx.router = NewRouter(NewServer(svc, router, fx.store, fx.cache, nil))
	return fx
}

func (fx *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAnalyze(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, "/api/v1/stocks/tcs", "")
	require.Equal(t, http.StatusOK, w.Code)
	a := decode[model.StockAnalysis](t, w)
	assert.Equal(t, "TCS", a.Symbol)
	assert.Equal(t, 399.0, a.CurrentPrice)
	assert.Equal(t, model.SignalStrongBuy, a.Signal)

	w = fx.do(http.MethodGet, "/api/v1/stocks/WIPRO", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "unavailable")
}

func TestForecastQuoteHistory(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, "/api/v1/stocks/TCS/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)
	f := decode[model.Forecast](t, w)
	assert.Equal(t, "TCS", f.Symbol)
	assert.Len(t, f.Predictions, 3)

	w = fx.do(http.MethodGet, "/api/v1/stocks/TCS/quote", "")
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[model.Quote](t, w)
	assert.Equal(t, 399.0, q.Last)
	assert.Equal(t, 398.0, q.PreviousClose)

	w = fx.do(http.MethodGet, "/api/v1/stocks/TCS/history?days=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[model.PriceSeries](t, w).Bars, 10)

	w = fx.do(http.MethodGet, "/api/v1/stocks/TCS/history?days=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/v1/stocks/infy/refresh", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"INFY","refreshed":true}`, w.Body.String())
	assert.Equal(t, []string{"INFY"}, fx.cache.invalidated)

	fx.cache.err = errors.New("redis down")
	w = fx.do(http.MethodPost, "/api/v1/stocks/INFY/refresh", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCompareAndScreen(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, "/api/v1/compare?symbols=tcs,%20infy", "")
	require.Equal(t, http.StatusOK, w.Code)
	c := decode[model.Comparison](t, w)
	require.Len(t, c.Entries, 2)
	assert.Equal(t, "TCS", c.Entries[0].Symbol)
	assert.Equal(t, "INFY", c.Entries[1].Symbol)

	w = fx.do(http.MethodGet, "/api/v1/compare?symbols=TCS", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(http.MethodGet, "/api/v1/screen?q=pharma", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Title   string               `json:"title"`
		Results []model.ScreenResult `json:"results"`
	}](t, w)
	assert.Equal(t, "pharma", body.Title)
	assert.Len(t, body.Results, analysis.MaxScreened)
}

func TestHeatmap(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, "/api/v1/heatmap", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[model.Heatmap](t, w).Sectors)

	w = fx.do(http.MethodGet, "/api/v1/heatmap/pharma", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pharma", decode[model.SectorHeat](t, w).Name)

	w = fx.do(http.MethodGet, "/api/v1/heatmap/crypto", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAsk(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/v1/ask", `{"question":"Should I buy TCS?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[map[string]any](t, w)
	assert.Equal(t, "recommendation", env["type"])
	assert.Equal(t, "buy_sell", env["intent"])
	assert.Equal(t, "TCS", env["symbol"])

	w = fx.do(http.MethodPost, "/api/v1/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPositionsCRUD(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPut, "/api/v1/positions/tcs", `{"quantity":10,"avgPrice":300}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"TCS","quantity":10,"avgPrice":300}`, w.Body.String())

	w = fx.do(http.MethodPut, "/api/v1/positions/TCS", `{"quantity":0,"avgPrice":300}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(http.MethodGet, "/api/v1/positions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Position](t, w), 1)

	w = fx.do(http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[model.PortfolioReport](t, w)
	assert.Equal(t, 1, r.StockCount)
	assert.Equal(t, 3990.0, r.TotalValue)

	w = fx.do(http.MethodGet, "/api/v1/positions/TCS/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]store.Change](t, w), 1)

	w = fx.do(http.MethodDelete, "/api/v1/positions/TCS", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = fx.do(http.MethodGet, "/api/v1/positions/TCS", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = fx.do(http.MethodDelete, "/api/v1/positions/TCS", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzePortfolio(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/v1/portfolio/analyze", `{"positions":[{"symbol":"tcs","quantity":2,"avgPrice":350}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[model.PortfolioReport](t, w)
	require.Len(t, r.Positions, 1)
	assert.Equal(t, "TCS", r.Positions[0].Symbol)
	assert.Equal(t, 798.0, r.TotalValue)

	w = fx.do(http.MethodPost, "/api/v1/portfolio/analyze", `{"positions":[{"symbol":"TCS","quantity":-1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(http.MethodPost, "/api/v1/portfolio/analyze", `{"positions":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[model.PortfolioReport](t, w).OverallScore)
}
