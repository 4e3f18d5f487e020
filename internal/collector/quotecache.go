package collector

import (
	"context"
	"sync"
	"time"

	"MarketInsight/internal/model"
)

// DefaultQuoteTTL is how long an in-memory quote stays fresh.
const DefaultQuoteTTL = 60 * time.Second

// Clock returns the current time.
type Clock func() time.Time

type cachedQuote struct {
	quote    model.Quote
	storedAt time.Time
}

// QuoteCache is an in-memory TTL cache of quotes keyed by symbol. It is safe
// for concurrent use.
type QuoteCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]cachedQuote
}

// NewQuoteCache creates a cache. A nil clock uses time.Now.
func NewQuoteCache(ttl time.Duration, now Clock) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	if now == nil {
		now = time.Now
	}
	return &QuoteCache{ttl: ttl, now: now, entries: make(map[string]cachedQuote)}
}

// Get returns a fresh quote. Expired entries are evicted.
func (c *QuoteCache) Get(symbol string) (model.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[symbol]
	if !ok {
		return model.Quote{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, symbol)
		return model.Quote{}, false
	}
	return e.quote, true
}

// Put stores a quote stamped with the current clock time.
func (c *QuoteCache) Put(symbol string, q model.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = cachedQuote{quote: q, storedAt: c.now()}
}

// Delete drops the entry for symbol.
func (c *QuoteCache) Delete(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, symbol)
}

// Clear drops every entry.
func (c *QuoteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedQuote)
}

// Len counts stored entries, fresh or not.
func (c *QuoteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// QuoteCachingFetcher serves quotes from a QuoteCache and delegates
// everything else to the wrapped Fetcher.
type QuoteCachingFetcher struct {
	Fetcher
	cache *QuoteCache
}

// WithQuoteCache wraps f so repeated quote lookups within the TTL are served
// from memory.
func WithQuoteCache(f Fetcher, cache *QuoteCache) *QuoteCachingFetcher {
	return &QuoteCachingFetcher{Fetcher: f, cache: cache}
}

func (f *QuoteCachingFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	if q, ok := f.cache.Get(symbol); ok {
		return &q, nil
	}
	q, err := f.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	f.cache.Put(symbol, *q)
	return q, nil
}

// Invalidate drops symbol from the quote cache and from the wrapped fetcher's
// cache when it has one.
func (f *QuoteCachingFetcher) Invalidate(ctx context.Context, symbol string) error {
	f.cache.Delete(symbol)
	if inv, ok := f.Fetcher.(interface {
		Invalidate(ctx context.Context, symbol string) error
	}); ok {
		return inv.Invalidate(ctx, symbol)
	}
	return nil
}
