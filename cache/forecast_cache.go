package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"skycast/datasource"
	"skycast/models"
)

// CachedForecastSource wraps a ForecastSource and reuses payloads per coordinate
type CachedForecastSource struct {
	source datasource.ForecastSource
	store  *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger
	counters
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, ttl time.Duration, logger *zap.Logger) *CachedForecastSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedForecastSource{
		source: source,
		store:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
		logger: logger,
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchForecast fetches forecast data, using the cache when available.
// Payloads are shared between callers and must be treated as read-only.
func (c *CachedForecastSource) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastPayload, error) {
	key := fmt.Sprintf("%.4f:%.4f", latitude, longitude)

	if v, found := c.store.Get(key); found {
		c.hits.Add(1)
		c.logger.Debug("forecast cache hit", zap.String("key", key))
		return v.(*models.ForecastPayload), nil
	}

	c.misses.Add(1)
	c.logger.Debug("forecast cache miss", zap.String("key", key), zap.String("source", c.source.Name()))

	payload, err := c.source.FetchForecast(ctx, latitude, longitude)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, payload, c.ttl)
	return payload, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedForecastSource) CacheStats() Stats {
	return c.stats()
}

// Flush drops every cached payload
func (c *CachedForecastSource) Flush() {
	c.store.Flush()
}

// Ensure CachedForecastSource implements the ForecastSource interface
var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
