package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"MarketInsight/internal/analysis"
	"MarketInsight/internal/assistant"
	"MarketInsight/internal/catalog"
	"MarketInsight/internal/collector"
	"MarketInsight/internal/common"
	"MarketInsight/internal/config"
	"MarketInsight/internal/store"
)

// App holds the wired components shared by every command.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Catalog *catalog.Catalog
	Fetcher *collector.QuoteCachingFetcher
	Service *analysis.Service
	Router  *assistant.Router
	Store   store.Store

	redis *redis.Client
}

func newApp(cfg *config.Config) (*App, error) {
	logger := common.NewLoggerFromConfig(common.LoggingConfig{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	cat := catalog.Default()
	a := &App{Config: cfg, Logger: logger, Catalog: cat}

	base, err := newFetcher(cfg, cat, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("provider", base.Name()).Msg("data source ready")

	a.redis = newRedis(cfg, logger)
	cached := collector.NewCachingFetcher(a.redis, base, collector.CacheTTLs{
		History:  cfg.Cache.HistoryTTL,
		Metadata: cfg.Cache.MetadataTTL,
		Quote:    cfg.Cache.QuoteTTL,
	}, cfg.Cache.Namespace, logger)
	a.Fetcher = collector.WithQuoteCache(cached, collector.NewQuoteCache(cfg.Cache.QuoteTTL, time.Now))

	a.Service = analysis.NewService(a.Fetcher, cat,
		analysis.WithLogger(logger),
		analysis.WithHistoryDays(cfg.DataSource.HistoryDays),
	)
	a.Router = assistant.NewRouter(a.Service, cat, logger)

	if a.Store, err = newStore(cfg, logger); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newFetcher(cfg *config.Config, cat *catalog.Catalog, logger *common.Logger) (collector.Fetcher, error) {
	opts := []collector.Option{
		collector.WithTimeout(cfg.DataSource.Timeout),
		collector.WithRateLimit(cfg.DataSource.RateLimit),
		collector.WithProxy(cfg.Proxy),
		collector.WithLogger(logger),
		collector.WithTicker(cat.Ticker),
	}
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, collector.WithBaseURL(cfg.DataSource.BaseURL))
		}
		return collector.NewYahooFetcher(opts...), nil
	case config.ProviderREST:
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, opts...), nil
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 1000}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
}

// newRedis connects to the configured Redis. An unreachable server disables
// the shared cache instead of failing startup.
func newRedis(cfg *config.Config, logger *common.Logger) *redis.Client {
	if cfg.Cache.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Cache.Redis.Addr).Msg("redis unreachable, cache disabled")
		rdb.Close()
		return nil
	}
	logger.Info().Str("addr", cfg.Cache.Redis.Addr).Msg("redis cache connected")
	return rdb
}

func newStore(cfg *config.Config, logger *common.Logger) (store.Store, error) {
	path := cfg.Database.SQLitePath
	if path == "" || path == ":memory:" {
		return store.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s, err := store.NewSQLiteStore(path, logger)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("sqlite store unavailable, positions kept in memory")
		return store.NewMemoryStore(), nil
	}
	return s, nil
}

// Close releases the store and the Redis connection.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("close store")
		}
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
