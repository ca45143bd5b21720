package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"StockDashboard/internal/metrics"
	"StockDashboard/internal/model"
)

// CachingFetcher decorates a Fetcher with Redis caching of whole series.
// A nil rdb bypasses the cache. Cache errors never fail a fetch.
type CachingFetcher struct {
	inner     Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	metrics   *metrics.Metrics
}

// NewCachingFetcher wraps inner. If ttl is 0 it defaults to 15 minutes;
// an empty namespace becomes "series".
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner Fetcher, namespace string, m *metrics.Metrics) *CachingFetcher {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingFetcher{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace, metrics: m}
}

func (c *CachingFetcher) Name() string { return c.inner.Name() }

type cachedSeries struct {
	Symbol string        `json:"symbol"`
	Bars   []model.OHLCV `json:"bars"`
}

func (c *CachingFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if c.rdb == nil {
		return c.inner.FetchDailyBars(ctx, symbol, start, end)
	}

	key := c.cacheKey(symbol, start, end)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cs cachedSeries
		if err := json.Unmarshal(b, &cs); err == nil {
			if s, err := model.NewPriceSeries(cs.Symbol, cs.Bars); err == nil {
				c.hit()
				return s, nil
			}
		}
		_ = c.rdb.Del(ctx, key).Err()
	}
	c.miss()

	s, err := c.inner.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if s.Len() > 0 {
		if b, err := json.Marshal(cachedSeries{Symbol: s.Symbol, Bars: s.Bars()}); err == nil {
			_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
		}
	}
	return s, nil
}

func (c *CachingFetcher) cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		c.namespace,
		c.inner.Name(),
		safe(symbol),
		Date(start).Format("20060102"),
		Date(end).Format("20060102"),
	)
}

func (c *CachingFetcher) hit() {
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
}

func (c *CachingFetcher) miss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}

func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, ":", "_")
}
