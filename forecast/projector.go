// Package forecast projects the daily series of a forecast payload into
// per-day view entries.
package forecast

import (
	"time"

	"skycast/conditions"
	"skycast/models"
	"skycast/timeline"
	"skycast/units"
)

// DefaultMaxDays caps the projection when a policy leaves MaxDays unset
const DefaultMaxDays = 7

// MissingCode marks a day whose condition code was absent upstream; it
// classifies as Unknown
const MissingCode = -1

// WindowPolicy selects which days are projected
type WindowPolicy struct {
	SkipToday bool `json:"skipToday"`
	MaxDays   int  `json:"maxDays"`
}

// DefaultWindow includes today and shows at most DefaultMaxDays days
func DefaultWindow() WindowPolicy {
	return WindowPolicy{MaxDays: DefaultMaxDays}
}

// Bounds returns the half-open index range [start, end) to project out of n days
func (p WindowPolicy) Bounds(n int) (start, end int) {
	limit := p.MaxDays
	if limit <= 0 {
		limit = DefaultMaxDays
	}
	if p.SkipToday {
		start = 1
	}
	if start > n {
		start = n
	}
	end = start + limit
	if end > n {
		end = n
	}
	return start, end
}

// BadgePolicy decides when a day gets a precipitation badge. A badge is
// shown when the sum exceeds MinSum or the probability exceeds
// MinProbability; missing values never qualify.
type BadgePolicy struct {
	MinSum         float64 `json:"minSum"`
	MinProbability float64 `json:"minProbability"`
}

// Shows reports whether a badge is shown for the given values
func (p BadgePolicy) Shows(sum, probability *float64) bool {
	return (sum != nil && *sum > p.MinSum) || (probability != nil && *probability > p.MinProbability)
}

// Options configures Project
type Options struct {
	Window WindowPolicy
	Badge  BadgePolicy
	Locale timeline.Locale
	Zone   *time.Location
}

// Entries zips the parallel daily arrays into one record per day. The
// length follows series.Time; shorter arrays leave the field nil.
func Entries(series *models.DailySeries) []models.DailyForecastEntry {
	if series == nil {
		return nil
	}
	entries := make([]models.DailyForecastEntry, len(series.Time))
	for i, date := range series.Time {
		code := MissingCode
		if c := models.IntAt(series.WeatherCode, i); c != nil {
			code = *c
		}
		entries[i] = models.DailyForecastEntry{
			Date:                     date,
			TempMax:                  models.FloatAt(series.TemperatureMax, i),
			TempMin:                  models.FloatAt(series.TemperatureMin, i),
			ConditionCode:            code,
			PrecipitationSum:         models.FloatAt(series.PrecipitationSum, i),
			PrecipitationProbability: models.FloatAt(series.PrecipitationProbability, i),
			Sunrise:                  models.StringAt(series.Sunrise, i),
			Sunset:                   models.StringAt(series.Sunset, i),
		}
	}
	return entries
}

// Project builds view entries for the days selected by opts.Window. The
// input is not modified.
func Project(entries []models.DailyForecastEntry, opts Options) []models.ForecastViewEntry {
	start, end := opts.Window.Bounds(len(entries))
	out := make([]models.ForecastViewEntry, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, projectDay(entries[i], opts))
	}
	return out
}

func projectDay(day models.DailyForecastEntry, opts Options) models.ForecastViewEntry {
	view := models.ForecastViewEntry{
		Date:      day.Date,
		TempMax:   units.Degrees(day.TempMax),
		TempMin:   units.Degrees(day.TempMin),
		Condition: conditions.Classify(day.ConditionCode),
	}

	if date, err := timeline.ParseDate(day.Date, opts.Zone); err == nil {
		view.DayOfMonth = date.Day()
		if opts.Locale != nil {
			view.Weekday = opts.Locale.ShortWeekday(date)
		}
	}

	if opts.Badge.Shows(day.PrecipitationSum, day.PrecipitationProbability) {
		probability := units.Percent(day.PrecipitationProbability)
		amount := units.Precipitation(day.PrecipitationSum)
		view.Precipitation = &models.PrecipitationBadge{
			Probability: probability,
			Amount:      amount,
			Label:       probability + " • " + amount,
		}
	}

	view.Sunrise = clock(day.Sunrise, opts)
	view.Sunset = clock(day.Sunset, opts)
	return view
}

func clock(stamp string, opts Options) string {
	if stamp == "" || opts.Locale == nil {
		return ""
	}
	t, err := timeline.ParseTimestamp(stamp, opts.Zone)
	if err != nil {
		return ""
	}
	return timeline.FormatTime(t, opts.Locale)
}
