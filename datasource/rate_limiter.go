package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"skycast/models"
)

// throttle is a token bucket shared by the rate-limited decorators
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(rps float64, burst int) throttle {
	return throttle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// wait blocks for a token; a canceled ctx never reaches upstream
func (t throttle) wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

// RateLimitedGeocoder spaces out place-name lookups. Open-Meteo asks
// non-commercial clients to stay under a few requests per second.
type RateLimitedGeocoder struct {
	Geocoder
	throttle
}

// NewRateLimitedGeocoder allows rps lookups per second with bursts of burst
func NewRateLimitedGeocoder(geocoder Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{Geocoder: geocoder, throttle: newThrottle(rps, burst)}
}

// Search waits for the limiter, then asks the wrapped geocoder
func (r *RateLimitedGeocoder) Search(ctx context.Context, query string, count int) ([]models.LocationMatch, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.Geocoder.Search(ctx, query, count)
}

func (r *RateLimitedGeocoder) Name() string {
	return r.Geocoder.Name() + " [Rate Limited]"
}

// RateLimitedForecastSource spaces out forecast fetches for coordinates
type RateLimitedForecastSource struct {
	ForecastSource
	throttle
}

// NewRateLimitedForecastSource allows rps fetches per second with bursts of burst
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{ForecastSource: source, throttle: newThrottle(rps, burst)}
}

// FetchForecast waits for the limiter, then fetches from the wrapped source
func (r *RateLimitedForecastSource) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastPayload, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.ForecastSource.FetchForecast(ctx, latitude, longitude)
}

func (r *RateLimitedForecastSource) Name() string {
	return r.ForecastSource.Name() + " [Rate Limited]"
}

var (
	_ Geocoder       = (*RateLimitedGeocoder)(nil)
	_ ForecastSource = (*RateLimitedForecastSource)(nil)
)
