package datasource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"skycast/models"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1"
	DefaultForecastURL  = "https://api.open-meteo.com/v1"

	currentFields = "temperature_2m,relative_humidity_2m,wind_speed_10m,pressure_msl,visibility,weather_code,is_day"
	hourlyFields  = "relative_humidity_2m,pressure_msl,visibility,wind_speed_10m,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max,sunrise,sunset"
)

// OpenMeteoConfig configures the Open-Meteo provider
type OpenMeteoConfig struct {
	GeocodingURL string
	ForecastURL  string
	Timeout      time.Duration
	RetryCount   int
	ForecastDays int
	Language     string
}

// OpenMeteoProvider implements both Geocoder and ForecastSource interfaces
type OpenMeteoProvider struct {
	geocoding *resty.Client
	forecast  *resty.Client
	days      int
	language  string
	logger    *zap.Logger
}

// geocodingResponse is the body of /v1/search; results is absent when nothing matched
type geocodingResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Admin1      string  `json:"admin1"`
		Timezone    string  `json:"timezone"`
	} `json:"results"`
}

// apiError is the body Open-Meteo sends with 4xx answers
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// NewOpenMeteoProvider creates a new Open-Meteo provider
func NewOpenMeteoProvider(cfg OpenMeteoConfig, logger *zap.Logger) *OpenMeteoProvider {
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 7
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenMeteoProvider{
		geocoding: newClient(cfg.GeocodingURL, cfg),
		forecast:  newClient(cfg.ForecastURL, cfg),
		days:      cfg.ForecastDays,
		language:  cfg.Language,
		logger:    logger,
	}
}

func newClient(baseURL string, cfg OpenMeteoConfig) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Accept", "application/json")
}

// Name returns the provider name
func (p *OpenMeteoProvider) Name() string {
	return "Open-Meteo"
}

// Search resolves a place name into up to count locations
func (p *OpenMeteoProvider) Search(ctx context.Context, query string, count int) ([]models.LocationMatch, error) {
	resp, err := p.geocoding.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     query,
			"count":    strconv.Itoa(count),
			"language": p.language,
			"format":   "json",
		}).
		SetResult(&geocodingResponse{}).
		SetError(&apiError{}).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	if resp.IsError() {
		return nil, upstreamError("geocoding", resp)
	}

	body, ok := resp.Result().(*geocodingResponse)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected geocoding response", ErrUpstream)
	}

	matches := make([]models.LocationMatch, 0, len(body.Results))
	for _, r := range body.Results {
		matches = append(matches, models.LocationMatch{
			Name:        r.Name,
			Country:     r.Country,
			CountryCode: strings.ToUpper(r.CountryCode),
			AdminRegion: r.Admin1,
			Timezone:    r.Timezone,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}

	p.logger.Debug("geocoding lookup",
		zap.String("query", query), zap.Int("count", count), zap.Int("results", len(matches)))
	return matches, nil
}

// FetchForecast fetches current conditions, hourly detail and the daily forecast
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, latitude, longitude float64) (*models.ForecastPayload, error) {
	resp, err := p.forecast.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":        strconv.FormatFloat(latitude, 'f', 4, 64),
			"longitude":       strconv.FormatFloat(longitude, 'f', 4, 64),
			"current":         currentFields,
			"hourly":          hourlyFields,
			"daily":           dailyFields,
			"forecast_days":   strconv.Itoa(p.days),
			"wind_speed_unit": "kmh",
			"timezone":        "auto",
		}).
		SetResult(&models.ForecastPayload{}).
		SetError(&apiError{}).
		Get("/forecast")
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	if resp.IsError() {
		return nil, upstreamError("forecast", resp)
	}

	payload, ok := resp.Result().(*models.ForecastPayload)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected forecast response", ErrUpstream)
	}

	p.logger.Debug("forecast fetched",
		zap.Float64("latitude", latitude), zap.Float64("longitude", longitude),
		zap.String("timezone", payload.Timezone), zap.Duration("elapsed", resp.Time()))
	return payload, nil
}

func upstreamError(what string, resp *resty.Response) error {
	if e, ok := resp.Error().(*apiError); ok && e.Reason != "" {
		return fmt.Errorf("%w: %s (status %d): %s", ErrUpstream, what, resp.StatusCode(), e.Reason)
	}
	return fmt.Errorf("%w: %s (status %d): %s", ErrUpstream, what, resp.StatusCode(), strings.TrimSpace(resp.String()))
}

// Verify that the provider implements the required interfaces
var (
	_ Geocoder       = (*OpenMeteoProvider)(nil)
	_ ForecastSource = (*OpenMeteoProvider)(nil)
)
