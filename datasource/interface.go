package datasource

import (
	"context"
	"errors"

	"skycast/models"
)

// ErrUpstream marks a non-success answer from a weather or geocoding service
var ErrUpstream = errors.New("upstream service error")

// Geocoder resolves place names into ranked location matches
type Geocoder interface {
	// Search returns up to count matches, most relevant first; it may return none
	Search(ctx context.Context, query string, count int) ([]models.LocationMatch, error)

	// Name returns the geocoder's name
	Name() string
}

// ForecastSource fetches raw forecast payloads for coordinates
type ForecastSource interface {
	// FetchForecast fetches current conditions plus the hourly and daily series
	FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastPayload, error)

	// Name returns the source's name
	Name() string
}
