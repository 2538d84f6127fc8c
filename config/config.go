// Package config loads SkyCast settings from a JSON file, the environment
// and command line flags, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"skycast/conditions"
	"skycast/datasource"
	"skycast/forecast"
	"skycast/locale"
	"skycast/viewmodel"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SKYCAST_"

// Duration is a time.Duration that reads and writes as "90s" in JSON
type Duration time.Duration

// MarshalJSON encodes the duration as a Go duration string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "5m" style strings or a number of seconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value * float64(time.Second)))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port               int      `json:"port"`
		SessionIdleTimeout Duration `json:"sessionIdleTimeout"`
		RefreshInterval    Duration `json:"refreshInterval"`
		RefreshConcurrency int      `json:"refreshConcurrency"`
	} `json:"server"`

	OpenMeteo struct {
		GeocodingURL      string   `json:"geocodingURL"`
		ForecastURL       string   `json:"forecastURL"`
		Timeout           Duration `json:"timeout"`
		RetryCount        int      `json:"retryCount"`
		ForecastDays      int      `json:"forecastDays"`
		Language          string   `json:"language"`
		RequestsPerSecond float64  `json:"requestsPerSecond"`
		Burst             int      `json:"burst"`
	} `json:"openMeteo"`

	// A zero TTL disables that cache
	Cache struct {
		GeocodingTTL Duration `json:"geocodingTTL"`
		ForecastTTL  Duration `json:"forecastTTL"`
	} `json:"cache"`

	Display struct {
		Locale              string  `json:"locale"`
		IconSet             string  `json:"iconSet"`
		SkipToday           bool    `json:"skipToday"`
		MaxDays             int     `json:"maxDays"`
		BadgeMinSum         float64 `json:"badgeMinSum"`
		BadgeMinProbability float64 `json:"badgeMinProbability"`
	} `json:"display"`

	// Looked up when a session starts without a selection
	DefaultCity string `json:"defaultCity"`
	LogLevel    string `json:"logLevel"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.SessionIdleTimeout = Duration(30 * time.Minute)
	config.Server.RefreshInterval = Duration(10 * time.Minute)
	config.Server.RefreshConcurrency = 4

	config.OpenMeteo.GeocodingURL = datasource.DefaultGeocodingURL
	config.OpenMeteo.ForecastURL = datasource.DefaultForecastURL
	config.OpenMeteo.Timeout = Duration(10 * time.Second)
	config.OpenMeteo.RetryCount = 2
	config.OpenMeteo.ForecastDays = forecast.DefaultMaxDays
	config.OpenMeteo.Language = "en"
	config.OpenMeteo.RequestsPerSecond = 5
	config.OpenMeteo.Burst = 10

	config.Cache.GeocodingTTL = Duration(24 * time.Hour)

	config.Display.Locale = "en-US"
	config.Display.IconSet = conditions.FontAwesome.Name
	config.Display.MaxDays = forecast.DefaultMaxDays

	config.DefaultCity = "London"
	config.LogLevel = "info"
	return config
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	return config, nil
}

// ApplyEnv overrides settings from SKYCAST_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *Duration) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = Duration(d)
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	num("PORT", &c.Server.Port)
	dur("REFRESH_INTERVAL", &c.Server.RefreshInterval)
	str("GEOCODING_URL", &c.OpenMeteo.GeocodingURL)
	str("FORECAST_URL", &c.OpenMeteo.ForecastURL)
	str("LANGUAGE", &c.OpenMeteo.Language)
	dur("GEOCODING_CACHE_TTL", &c.Cache.GeocodingTTL)
	dur("FORECAST_CACHE_TTL", &c.Cache.ForecastTTL)
	str("LOCALE", &c.Display.Locale)
	str("ICON_SET", &c.Display.IconSet)
	flag("SKIP_TODAY", &c.Display.SkipToday)
	num("MAX_DAYS", &c.Display.MaxDays)
	str("DEFAULT_CITY", &c.DefaultCity)
	str("LOG_LEVEL", &c.LogLevel)

	return errors.Join(errs...)
}

// Validate reports every setting that cannot be used
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RefreshInterval < 0 {
		errs = append(errs, errors.New("server.refreshInterval must not be negative"))
	}
	if c.OpenMeteo.GeocodingURL == "" || c.OpenMeteo.ForecastURL == "" {
		errs = append(errs, errors.New("openMeteo URLs must be set"))
	}
	if c.OpenMeteo.RequestsPerSecond < 0 || c.OpenMeteo.Burst < 0 {
		errs = append(errs, errors.New("openMeteo rate limits must not be negative"))
	}
	if c.OpenMeteo.ForecastDays < 1 || c.OpenMeteo.ForecastDays > 16 {
		errs = append(errs, fmt.Errorf("openMeteo.forecastDays %d must be between 1 and 16", c.OpenMeteo.ForecastDays))
	}
	if c.Cache.GeocodingTTL < 0 || c.Cache.ForecastTTL < 0 {
		errs = append(errs, errors.New("cache TTLs must not be negative"))
	}
	if _, err := conditions.IconSetByName(c.Display.IconSet); err != nil {
		errs = append(errs, err)
	}
	if c.Display.MaxDays < 0 {
		errs = append(errs, errors.New("display.maxDays must not be negative"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// ViewOptions translates the display settings for the view model builder
func (c *Config) ViewOptions() viewmodel.Options {
	return viewmodel.Options{
		Window: forecast.WindowPolicy{
			SkipToday: c.Display.SkipToday,
			MaxDays:   c.Display.MaxDays,
		},
		Badge: forecast.BadgePolicy{
			MinSum:         c.Display.BadgeMinSum,
			MinProbability: c.Display.BadgeMinProbability,
		},
		Locale: locale.New(c.Display.Locale),
	}
}

// Icons returns the configured icon set, falling back to Font Awesome
func (c *Config) Icons() conditions.IconSet {
	set, err := conditions.IconSetByName(c.Display.IconSet)
	if err != nil {
		return conditions.FontAwesome
	}
	return set
}

// OpenMeteoConfig returns the transport settings for the provider
func (c *Config) OpenMeteoConfig() datasource.OpenMeteoConfig {
	return datasource.OpenMeteoConfig{
		GeocodingURL: c.OpenMeteo.GeocodingURL,
		ForecastURL:  c.OpenMeteo.ForecastURL,
		Timeout:      c.OpenMeteo.Timeout.Std(),
		RetryCount:   c.OpenMeteo.RetryCount,
		ForecastDays: c.OpenMeteo.ForecastDays,
		Language:     c.OpenMeteo.Language,
	}
}
