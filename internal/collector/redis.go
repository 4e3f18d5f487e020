package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"MarketInsight/internal/common"
	"MarketInsight/internal/model"
)

// CacheTTLs configures the Redis lifetime of each kind of data.
type CacheTTLs struct {
	History  time.Duration
	Metadata time.Duration
	Quote    time.Duration
}

// CachingFetcher decorates a Fetcher with Redis caching. A nil client
// bypasses the cache entirely.
type CachingFetcher struct {
	inner     Fetcher
	rdb       *redis.Client
	ttl       CacheTTLs
	namespace string
	logger    *common.Logger
}

// NewCachingFetcher decorates inner with Redis caching. Zero TTLs default to
// 15 minutes for history, 6 hours for metadata and 60 seconds for quotes. An
// empty namespace uses "insight".
func NewCachingFetcher(rdb *redis.Client, inner Fetcher, ttl CacheTTLs, namespace string, logger *common.Logger) *CachingFetcher {
	if ttl.History <= 0 {
		ttl.History = 15 * time.Minute
	}
	if ttl.Metadata <= 0 {
		ttl.Metadata = 6 * time.Hour
	}
	if ttl.Quote <= 0 {
		ttl.Quote = DefaultQuoteTTL
	}
	if namespace == "" {
		namespace = "insight"
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &CachingFetcher{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace, logger: logger}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() }

func (c *CachingFetcher) FetchHistory(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	key := c.cacheKey("history", symbol, fmt.Sprint(days))
	return cached(ctx, c, key, c.ttl.History, func() (*model.PriceSeries, error) {
		return c.inner.FetchHistory(ctx, symbol, days)
	})
}

func (c *CachingFetcher) FetchMetadata(ctx context.Context, symbol string) (*model.InstrumentMetadata, error) {
	key := c.cacheKey("meta", symbol)
	return cached(ctx, c, key, c.ttl.Metadata, func() (*model.InstrumentMetadata, error) {
		return c.inner.FetchMetadata(ctx, symbol)
	})
}

func (c *CachingFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	key := c.cacheKey("quote", symbol)
	return cached(ctx, c, key, c.ttl.Quote, func() (*model.Quote, error) {
		return c.inner.FetchQuote(ctx, symbol)
	})
}

// Invalidate drops every cached entry of symbol.
func (c *CachingFetcher) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.deleteByPattern(ctx, c.cacheKey("history", symbol)+":*"); err != nil {
		return fmt.Errorf("invalidate %s: %w", symbol, err)
	}
	if err := c.rdb.Del(ctx, c.cacheKey("meta", symbol), c.cacheKey("quote", symbol)).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", symbol, err)
	}
	return nil
}

// cached reads key from Redis, falling back to load and storing its result.
// Cache errors never fail the fetch.
func cached[T any](ctx context.Context, c *CachingFetcher, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if c.rdb == nil {
		return load()
	}

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		c.logger.Warn().Str("key", key).Msg("deleting corrupted cache entry")
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := load()
	if err != nil {
		return out, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

func (c *CachingFetcher) cacheKey(kind, symbol string, extra ...string) string {
	parts := append([]string{c.namespace, kind, safe(symbol)}, extra...)
	return strings.Join(parts, ":")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingFetcher) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ":", "_")
}
