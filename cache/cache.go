package cache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"skycast/datasource"
	"skycast/models"
)

// Stats counts lookups served from memory versus the wrapped source
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// CachedGeocoder wraps a Geocoder and remembers answers per query
type CachedGeocoder struct {
	source datasource.Geocoder
	store  *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger
	counters
}

// NewCachedGeocoder creates a new cached wrapper around a geocoder
func NewCachedGeocoder(source datasource.Geocoder, ttl time.Duration, logger *zap.Logger) *CachedGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGeocoder{
		source: source,
		store:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
		logger: logger,
	}
}

// Name returns the name of the underlying geocoder with [Cached] suffix
func (c *CachedGeocoder) Name() string {
	return c.source.Name() + " [Cached]"
}

// Search resolves a place name, using the cache when available
func (c *CachedGeocoder) Search(ctx context.Context, query string, count int) ([]models.LocationMatch, error) {
	key := fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(query)), count)

	if v, found := c.store.Get(key); found {
		c.hits.Add(1)
		c.logger.Debug("geocoding cache hit", zap.String("key", key))
		return cloneMatches(v.([]models.LocationMatch)), nil
	}

	c.misses.Add(1)
	c.logger.Debug("geocoding cache miss", zap.String("key", key), zap.String("source", c.source.Name()))

	matches, err := c.source.Search(ctx, query, count)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, cloneMatches(matches), c.ttl)
	return matches, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedGeocoder) CacheStats() Stats {
	return c.stats()
}

// Flush drops every cached answer
func (c *CachedGeocoder) Flush() {
	c.store.Flush()
}

func cloneMatches(in []models.LocationMatch) []models.LocationMatch {
	out := make([]models.LocationMatch, len(in))
	copy(out, in)
	return out
}

// Ensure CachedGeocoder implements the Geocoder interface
var _ datasource.Geocoder = (*CachedGeocoder)(nil)
