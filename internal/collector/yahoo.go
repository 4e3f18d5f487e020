package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"MarketInsight/internal/common"
	"MarketInsight/internal/model"
)

const (
	DefaultYahooURL  = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *common.Logger
	ticker  func(symbol string) string
}

// Option configures an HTTP-backed fetcher.
type Option func(*httpOptions)

type httpOptions struct {
	baseURL   string
	timeout   time.Duration
	rateLimit int
	proxyURL  string
	logger    *common.Logger
	ticker    func(string) string
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(u string) Option { return func(o *httpOptions) { o.baseURL = u } }

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option { return func(o *httpOptions) { o.timeout = d } }

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps int) Option { return func(o *httpOptions) { o.rateLimit = rps } }

// WithProxy routes requests through an HTTP proxy.
func WithProxy(proxyURL string) Option { return func(o *httpOptions) { o.proxyURL = proxyURL } }

// WithLogger sets the logger.
func WithLogger(l *common.Logger) Option { return func(o *httpOptions) { o.logger = l } }

// WithTicker maps an instrument symbol to the provider's ticker.
func WithTicker(fn func(string) string) Option { return func(o *httpOptions) { o.ticker = fn } }

func buildOptions(baseURL string, opts []Option) httpOptions {
	o := httpOptions{
		baseURL:   baseURL,
		timeout:   DefaultTimeout,
		rateLimit: DefaultRateLimit,
		logger:    common.NewSilentLogger(),
		ticker:    func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rateLimit <= 0 {
		o.rateLimit = DefaultRateLimit
	}
	return o
}

func (o httpOptions) httpClient() *http.Client {
	transport := &http.Transport{}
	if o.proxyURL != "" {
		if u, err := url.Parse(o.proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: o.timeout, Transport: transport}
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(opts ...Option) *YahooFetcher {
	o := buildOptions(DefaultYahooURL, opts)
	return &YahooFetcher{
		baseURL: o.baseURL,
		client:  o.httpClient(),
		limiter: rate.NewLimiter(rate.Limit(o.rateLimit), o.rateLimit),
		logger:  o.logger,
		ticker:  o.ticker,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

type yahooMeta struct {
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
}

// yahooChart is the response structure from the chart API. Null entries
// (holidays, halted sessions) decode as nil.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       yahooMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooRaw struct {
	Raw *float64 `json:"raw"`
}

func (r *yahooRaw) value() *float64 {
	if r == nil {
		return nil
	}
	return r.Raw
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE       *yahooRaw `json:"trailingPE"`
				MarketCap        *yahooRaw `json:"marketCap"`
				DividendYield    *yahooRaw `json:"dividendYield"`
				FiftyTwoWeekHigh *yahooRaw `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  *yahooRaw `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				BookValue *yahooRaw `json:"bookValue"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				DebtToEquity   *yahooRaw `json:"debtToEquity"`
				ReturnOnEquity *yahooRaw `json:"returnOnEquity"`
				RevenueGrowth  *yahooRaw `json:"revenueGrowth"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			Price struct {
				ShortName string `json:"shortName"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// get performs a rate-limited GET request and decodes the JSON body.
func (f *YahooFetcher) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := f.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	f.logger.Debug().Str("path", path).Msg("yahoo request")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (yahooMeta, []model.OHLCV, error) {
	var chart yahooChart
	path := "/v8/finance/chart/" + url.PathEscape(f.ticker(symbol))
	params := url.Values{"interval": {interval}, "range": {rng}}
	if err := f.get(ctx, path, params, &chart); err != nil {
		return yahooMeta{}, nil, err
	}
	if chart.Chart.Error != nil {
		return yahooMeta{}, nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return yahooMeta{}, nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // null bar
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return result.Meta, bars, nil
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

// chartRange picks the smallest Yahoo range holding the requested number of
// trading days.
func chartRange(days int) string {
	switch {
	case days <= 20:
		return "1mo"
	case days <= 60:
		return "3mo"
	case days <= 120:
		return "6mo"
	case days <= 250:
		return "1y"
	case days <= 500:
		return "2y"
	default:
		return "5y"
	}
}

func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	_, bars, err := f.fetchChart(ctx, symbol, "1d", chartRange(days))
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	if len(bars) == 0 {
		return nil, unavailable(f.Name(), symbol, nil)
	}
	return &model.PriceSeries{Symbol: symbol, Bars: trimBars(bars, days), FetchedAt: time.Now().UTC()}, nil
}

func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	meta, bars, err := f.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	if len(bars) == 0 {
		return nil, unavailable(f.Name(), symbol, nil)
	}

	lastBar := bars[len(bars)-1]
	last := meta.RegularMarketPrice
	if last <= 0 {
		last = lastBar.Close
	}
	prev := meta.ChartPreviousClose
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	ts := lastBar.Time
	if meta.RegularMarketTime > 0 {
		ts = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	return newQuote(symbol, last, prev, lastBar, ts), nil
}

func (f *YahooFetcher) FetchMetadata(ctx context.Context, symbol string) (*model.InstrumentMetadata, error) {
	var summary yahooSummary
	path := "/v10/finance/quoteSummary/" + url.PathEscape(f.ticker(symbol))
	params := url.Values{"modules": {"summaryDetail,defaultKeyStatistics,financialData,assetProfile,price"}}
	if err := f.get(ctx, path, params, &summary); err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, unavailable(f.Name(), symbol, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description))
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, unavailable(f.Name(), symbol, nil)
	}

	r := summary.QuoteSummary.Result[0]
	return &model.InstrumentMetadata{
		Symbol:         symbol,
		Name:           r.Price.ShortName,
		Sector:         r.AssetProfile.Sector,
		Industry:       r.AssetProfile.Industry,
		TrailingPE:     r.SummaryDetail.TrailingPE.value(),
		MarketCap:      r.SummaryDetail.MarketCap.value(),
		DividendYield:  r.SummaryDetail.DividendYield.value(),
		High52w:        r.SummaryDetail.FiftyTwoWeekHigh.value(),
		Low52w:         r.SummaryDetail.FiftyTwoWeekLow.value(),
		BookValue:      r.DefaultKeyStatistics.BookValue.value(),
		DebtToEquity:   r.FinancialData.DebtToEquity.value(),
		ReturnOnEquity: r.FinancialData.ReturnOnEquity.value(),
		RevenueGrowth:  r.FinancialData.RevenueGrowth.value(),
	}, nil
}
