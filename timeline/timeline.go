// Package timeline aligns hourly series to the current time and formats
// dates through an injected Locale.
package timeline

import (
	"fmt"
	"strings"
	"time"
)

const (
	hourPrefix  = "2006-01-02T15"
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02T15:04"
)

// Locale is the locale-aware formatting capability used for display dates
type Locale interface {
	LongDate(t time.Time) string
	ShortWeekday(t time.Time) string
	Clock(t time.Time) string
}

// AlignHourlyIndex returns the first index in times whose hour prefix
// ("2006-01-02T15") matches now, or 0 when nothing matches. now should
// already be expressed in the same offset as the timestamps.
func AlignHourlyIndex(times []string, now time.Time) int {
	prefix := now.Format(hourPrefix)
	for i, ts := range times {
		if strings.HasPrefix(ts, prefix) {
			return i
		}
	}
	return 0
}

// FormatDate formats t as a long date for loc
func FormatDate(t time.Time, loc Locale) string {
	return loc.LongDate(t)
}

// FormatTime formats the time of day of t for loc
func FormatTime(t time.Time, loc Locale) string {
	return loc.Clock(t)
}

// ParseDate parses a calendar date ("2006-01-02") as midnight in zone
func ParseDate(s string, zone *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, zoneOrUTC(zone))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseTimestamp parses a local minute-precision stamp ("2006-01-02T15:04")
// in zone. RFC 3339 stamps are accepted as well.
func ParseTimestamp(s string, zone *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(stampLayout, s, zoneOrUTC(zone)); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.In(zoneOrUTC(zone)), nil
}

// Zone builds a fixed zone from a name and UTC offset as reported upstream
func Zone(name string, offsetSeconds int) *time.Location {
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, offsetSeconds)
}

func zoneOrUTC(zone *time.Location) *time.Location {
	if zone == nil {
		return time.UTC
	}
	return zone
}
