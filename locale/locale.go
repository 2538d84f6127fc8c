// Package locale formats dates and times for a handful of supported
// locales. Day and month names come from github.com/goodsign/monday; this
// package only picks the locale and the layouts.
package locale

import (
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// Formatter formats calendar values for one locale
type Formatter struct {
	tag      language.Tag
	names    monday.Locale
	longDate string
	clock    string
}

var supported = []*Formatter{
	{tag: language.AmericanEnglish, names: monday.LocaleEnUS, longDate: "Monday, January 2, 2006", clock: "3:04 PM"},
	{tag: language.BritishEnglish, names: monday.LocaleEnGB, longDate: "Monday 2 January 2006", clock: "15:04"},
	{tag: language.German, names: monday.LocaleDeDE, longDate: "Monday, 2. January 2006", clock: "15:04"},
	{tag: language.French, names: monday.LocaleFrFR, longDate: "Monday 2 January 2006", clock: "15:04"},
	{tag: language.Spanish, names: monday.LocaleEsES, longDate: "Monday, 2 de January de 2006", clock: "15:04"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, f := range supported {
		tags[i] = f.tag
	}
	return language.NewMatcher(tags)
}()

// Default is the en-US formatter
func Default() *Formatter {
	return supported[0]
}

// New returns the closest supported formatter for a BCP 47 tag or an
// Accept-Language style list. Unparsable or unmatched input gives Default.
func New(spec string) *Formatter {
	tags, _, err := language.ParseAcceptLanguage(spec)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(supported) {
		return Default()
	}
	return supported[index]
}

// Tag is the BCP 47 tag of the formatter
func (f *Formatter) Tag() string {
	return f.tag.String()
}

// LongDate formats like "Monday, October 19, 2026"
func (f *Formatter) LongDate(t time.Time) string {
	return monday.Format(t, f.longDate, f.names)
}

// ShortWeekday formats like "Mon"
func (f *Formatter) ShortWeekday(t time.Time) string {
	return monday.Format(t, "Mon", f.names)
}

// Clock formats the time of day, "7:03 AM" or "07:03" depending on locale
func (f *Formatter) Clock(t time.Time) string {
	return monday.Format(t, f.clock, f.names)
}
