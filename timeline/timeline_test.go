package timeline

import (
	"testing"
	"time"
)

type fakeLocale struct{}

func (fakeLocale) LongDate(t time.Time) string     { return "long " + t.Format("2006-01-02") }
func (fakeLocale) ShortWeekday(t time.Time) string { return t.Weekday().String()[:3] }
func (fakeLocale) Clock(t time.Time) string        { return "clock " + t.Format("15:04") }

func TestAlignHourlyIndex(t *testing.T) {
	times := []string{
		"2026-10-19T00:00",
		"2026-10-19T01:00",
		"2026-10-19T14:00",
		"2026-10-19T14:30",
		"2026-10-19T15:00",
	}

	testCases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exact hour", time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC), 1},
		{"within the hour", time.Date(2026, 10, 19, 15, 42, 0, 0, time.UTC), 4},
		{"first of two matches", time.Date(2026, 10, 19, 14, 59, 0, 0, time.UTC), 2},
		{"no match falls back to zero", time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AlignHourlyIndex(times, tc.now); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAlignHourlyIndexUsesOffsetOfNow(t *testing.T) {
	times := []string{"2026-10-19T13:00", "2026-10-19T14:00"}
	utc := time.Date(2026, 10, 19, 13, 10, 0, 0, time.UTC)
	local := utc.In(Zone("Europe/London", 3600))

	if got := AlignHourlyIndex(times, local); got != 1 {
		t.Errorf("expected local hour 14 at index 1, got %d", got)
	}
}

func TestAlignHourlyIndexEmpty(t *testing.T) {
	if got := AlignHourlyIndex(nil, time.Now()); got != 0 {
		t.Errorf("expected 0 for empty series, got %d", got)
	}
}

func TestFormatWrappersDelegate(t *testing.T) {
	ts := time.Date(2026, 10, 19, 7, 3, 0, 0, time.UTC)
	if got := FormatDate(ts, fakeLocale{}); got != "long 2026-10-19" {
		t.Errorf("unexpected date %q", got)
	}
	if got := FormatTime(ts, fakeLocale{}); got != "clock 07:03" {
		t.Errorf("unexpected time %q", got)
	}
}

func TestParseDateAndTimestamp(t *testing.T) {
	zone := Zone("Europe/Berlin", 7200)

	d, err := ParseDate("2026-10-19", zone)
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Day() != 19 || d.Weekday() != time.Monday {
		t.Errorf("unexpected date %v", d)
	}

	if _, err := ParseDate("19/10/2026", zone); err == nil {
		t.Error("expected error for bad date")
	}

	ts, err := ParseTimestamp("2026-10-19T07:03", zone)
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	if ts.Hour() != 7 || ts.Minute() != 3 {
		t.Errorf("unexpected timestamp %v", ts)
	}

	ts, err = ParseTimestamp("2026-10-19T05:03:00Z", zone)
	if err != nil {
		t.Fatalf("ParseTimestamp RFC3339 failed: %v", err)
	}
	if ts.Hour() != 7 {
		t.Errorf("expected conversion into zone, got %v", ts)
	}

	if _, err := ParseTimestamp("soon", nil); err == nil {
		t.Error("expected error for bad timestamp")
	}
}
