package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"MarketInsight/internal/catalog"
	"MarketInsight/internal/collector"
	"MarketInsight/internal/common"
	"MarketInsight/internal/forecast"
	"MarketInsight/internal/model"
)

const (
	// DefaultHistoryDays covers the 200-day average and the 52-week range.
	DefaultHistoryDays = 300
	// DefaultConcurrency bounds the per-symbol fan-out of batch operations.
	DefaultConcurrency = 6
)

// Service fetches market data and runs the analytics pipeline. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	fetcher     collector.Fetcher
	catalog     *catalog.Catalog
	logger      *common.Logger
	now         func() time.Time
	historyDays int
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *common.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock overrides the time source stamped on reports.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithHistoryDays sets how many daily bars are fetched per analysis.
func WithHistoryDays(days int) Option { return func(s *Service) { s.historyDays = days } }

// WithConcurrency bounds batch fan-out.
func WithConcurrency(n int) Option { return func(s *Service) { s.concurrency = n } }

// NewService creates a Service over the given provider and catalog.
func NewService(fetcher collector.Fetcher, cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		fetcher:     fetcher,
		catalog:     cat,
		logger:      common.NewSilentLogger(),
		now:         time.Now,
		historyDays: DefaultHistoryDays,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.historyDays <= 0 {
		s.historyDays = DefaultHistoryDays
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	return s
}

// Catalog returns the instrument catalog the service resolves symbols with.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

func (s *Service) identity(symbol string) Identity {
	id := Identity{Symbol: symbol}
	if inst, ok := s.catalog.Lookup(symbol); ok {
		id.Name = inst.Name
		id.Sector = inst.Sector
	}
	return id
}

// Analyze fetches history and metadata for symbol and evaluates it. Missing
// metadata is tolerated; missing history is an error wrapping
// collector.ErrUnavailable.
func (s *Service) Analyze(ctx context.Context, symbol string) (*model.StockAnalysis, error) {
	var (
		series *model.PriceSeries
		meta   *model.InstrumentMetadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = s.fetcher.FetchHistory(gctx, symbol, s.historyDays)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		meta = s.metadata(gctx, symbol)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("no data available for %s: %w", symbol, collector.ErrUnavailable)
	}

	a := Evaluate(s.identity(symbol), series, meta, s.now())
	s.logger.Debug().Str("symbol", symbol).Int("score", a.Score).Str("signal", string(a.Signal)).Msg("analysis complete")
	return &a, nil
}

// metadata fetches symbol's fundamentals; nil means the scorers fall back.
func (s *Service) metadata(ctx context.Context, symbol string) *model.InstrumentMetadata {
	m, err := s.fetcher.FetchMetadata(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("metadata unavailable, using fallbacks")
		return nil
	}
	return m
}

// Forecast runs the forecast ensemble over symbol's history. Insufficient
// history is reported through Forecast.Error, not as an error.
func (s *Service) Forecast(ctx context.Context, symbol string) (model.Forecast, error) {
	series, err := s.fetcher.FetchHistory(ctx, symbol, s.historyDays)
	if err != nil {
		return model.Forecast{}, fmt.Errorf("fetch history: %w", err)
	}
	f := forecast.Run(series.Closes())
	f.Symbol = symbol
	return f, nil
}

// Quote returns the latest quote for symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	q, err := s.fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	return q, nil
}

// History returns symbol's daily bars.
func (s *Service) History(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	series, err := s.fetcher.FetchHistory(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return series, nil
}
