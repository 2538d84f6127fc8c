// Package viewmodel composes the classifier, unit formatter, time aligner
// and forecast projector into a WeatherViewModel.
package viewmodel

import (
	"errors"
	"fmt"
	"time"

	"skycast/conditions"
	"skycast/forecast"
	"skycast/locale"
	"skycast/models"
	"skycast/timeline"
	"skycast/units"
)

// ErrMalformedPayload is returned when the payload lacks its current or daily block
var ErrMalformedPayload = errors.New("malformed forecast payload")

// Options controls how payloads are presented
type Options struct {
	Window forecast.WindowPolicy
	Badge  forecast.BadgePolicy
	Locale timeline.Locale
}

// DefaultOptions includes today, shows a week and formats for en-US
func DefaultOptions() Options {
	return Options{
		Window: forecast.DefaultWindow(),
		Locale: locale.Default(),
	}
}

// Build produces the view model for loc from payload. Missing fields
// degrade to placeholders; only a missing current or daily block fails.
func Build(loc models.LocationMatch, payload *models.ForecastPayload, now time.Time, opts Options) (models.WeatherViewModel, error) {
	switch {
	case payload == nil:
		return models.WeatherViewModel{}, fmt.Errorf("%w: empty response", ErrMalformedPayload)
	case payload.Current == nil:
		return models.WeatherViewModel{}, fmt.Errorf("%w: no current block", ErrMalformedPayload)
	case payload.Daily == nil:
		return models.WeatherViewModel{}, fmt.Errorf("%w: no daily block", ErrMalformedPayload)
	}
	if opts.Locale == nil {
		opts.Locale = locale.Default()
	}

	zone := timeline.Zone(payload.Timezone, payload.UTCOffsetSeconds)
	localNow := now.In(zone)
	current := CurrentConditions(payload, localNow)

	return models.WeatherViewModel{
		Location: loc,
		Date:     timeline.FormatDate(localNow, opts.Locale),
		Current:  currentView(current, opts.Locale),
		Forecast: forecast.Project(forecast.Entries(payload.Daily), forecast.Options{
			Window: opts.Window,
			Badge:  opts.Badge,
			Locale: opts.Locale,
			Zone:   zone,
		}),
		GeneratedAt: now,
	}, nil
}

// CurrentConditions reads the current block, falling back to the hourly
// series at the hour aligned with localNow for fields the block lacks
func CurrentConditions(payload *models.ForecastPayload, localNow time.Time) models.CurrentConditions {
	cur := payload.Current
	if cur == nil {
		cur = &models.CurrentBlock{}
	}
	hourly := payload.Hourly
	if hourly == nil {
		hourly = &models.HourlySeries{}
	}
	idx := timeline.AlignHourlyIndex(hourly.Time, localNow)

	out := models.CurrentConditions{
		Temperature:   cur.Temperature,
		Humidity:      firstFloat(cur.Humidity, models.FloatAt(hourly.Humidity, idx)),
		WindSpeed:     firstFloat(cur.WindSpeed, models.FloatAt(hourly.WindSpeed, idx)),
		Pressure:      firstFloat(cur.Pressure, models.FloatAt(hourly.Pressure, idx)),
		Visibility:    firstFloat(cur.Visibility, models.FloatAt(hourly.Visibility, idx)),
		ConditionCode: forecast.MissingCode,
	}

	if code := cur.WeatherCode; code != nil {
		out.ConditionCode = *code
	} else if code := models.IntAt(hourly.WeatherCode, idx); code != nil {
		out.ConditionCode = *code
	}

	if cur.IsDay != nil {
		isDay := *cur.IsDay != 0
		out.IsDaytime = &isDay
	}

	if cur.Time != "" {
		if observed, err := timeline.ParseTimestamp(cur.Time, localNow.Location()); err == nil {
			out.ObservedAt = &observed
		}
	}
	return out
}

func currentView(c models.CurrentConditions, loc timeline.Locale) models.CurrentView {
	view := models.CurrentView{
		Temperature:     units.Temperature(c.Temperature),
		TemperatureUnit: units.TemperatureUnit,
		Condition:       conditions.ClassifyAt(c.ConditionCode, c.IsDaytime),
		Humidity:        units.Percent(c.Humidity),
		WindSpeed:       units.WindSpeed(c.WindSpeed),
		Pressure:        units.Pressure(c.Pressure),
		Visibility:      units.Visibility(c.Visibility),
		IsDaytime:       c.IsDaytime,
	}
	if c.ObservedAt != nil {
		view.ObservedAt = timeline.FormatTime(*c.ObservedAt, loc)
	}
	return view
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
