package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"MarketInsight/internal/common"
	"MarketInsight/internal/model"
)

// RESTFetcher implements Fetcher against a generic JSON market-data API
// authenticated with a bearer token.
type RESTFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *common.Logger
	ticker  func(symbol string) string
}

// NewRESTFetcher creates a fetcher for the API at baseURL.
func NewRESTFetcher(baseURL, apiKey string, opts ...Option) *RESTFetcher {
	o := buildOptions(baseURL, opts)
	return &RESTFetcher{
		baseURL: o.baseURL,
		apiKey:  apiKey,
		client:  o.httpClient(),
		limiter: rate.NewLimiter(rate.Limit(o.rateLimit), o.rateLimit),
		logger:  o.logger,
		ticker:  o.ticker,
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the JSON shape of one daily bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type restQuote struct {
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        float64 `json:"volume"`
	Timestamp     int64   `json:"timestamp"`
}

func (f *RESTFetcher) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	f.logger.Debug().Str("path", path).Str("symbol", params.Get("symbol")).Msg("rest request")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("rest fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("rest decode: %w", err)
	}
	return nil
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	var raw []restBar
	params := url.Values{"symbol": {f.ticker(symbol)}, "limit": {strconv.Itoa(days)}}
	if err := f.get(ctx, "/api/v1/bars/daily", params, &raw); err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	if len(raw) == 0 {
		return nil, unavailable(f.Name(), symbol, nil)
	}

	bars := make([]model.OHLCV, len(raw))
	for i, b := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return &model.PriceSeries{Symbol: symbol, Bars: trimBars(bars, days), FetchedAt: time.Now().UTC()}, nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	var q restQuote
	if err := f.get(ctx, "/api/v1/quote", url.Values{"symbol": {f.ticker(symbol)}}, &q); err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	if q.Price <= 0 {
		return nil, unavailable(f.Name(), symbol, nil)
	}
	ts := time.Now().UTC()
	if q.Timestamp > 0 {
		ts = time.Unix(q.Timestamp, 0).UTC()
	}
	bar := model.OHLCV{Open: q.Open, High: q.High, Low: q.Low, Close: q.Price, Volume: q.Volume}
	return newQuote(symbol, q.Price, q.PreviousClose, bar, ts), nil
}

// FetchMetadata expects the provider to return InstrumentMetadata's JSON shape.
func (f *RESTFetcher) FetchMetadata(ctx context.Context, symbol string) (*model.InstrumentMetadata, error) {
	var meta model.InstrumentMetadata
	if err := f.get(ctx, "/api/v1/metadata", url.Values{"symbol": {f.ticker(symbol)}}, &meta); err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	meta.Symbol = symbol
	return &meta, nil
}
