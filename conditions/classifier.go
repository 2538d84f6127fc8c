// Package conditions maps WMO weather interpretation codes to display categories.
package conditions

import (
	"skycast/models"
)

const (
	colorSun     = "#f39c12"
	colorCloud   = "#95a5a6"
	colorFog     = "#bdc3c7"
	colorWet     = "#3498db"
	colorNeutral = "#95a5a6"
)

// Unknown is returned for every code outside the table
var Unknown = models.ConditionCategory{
	Description: "Unknown",
	Icon:        models.IconUnknown,
	Color:       colorNeutral,
}

var descriptions = map[int]string{
	0:  "Clear",
	1:  "Partly cloudy",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Foggy",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Thunderstorm with hail",
}

// Codes returns the table's codes in ascending order
func Codes() []int {
	return []int{0, 1, 2, 3, 45, 48, 51, 53, 55, 61, 63, 65, 71, 73, 75, 77, 80, 81, 82, 85, 86, 95, 96, 99}
}

// Known reports whether code is part of the table
func Known(code int) bool {
	_, ok := descriptions[code]
	return ok
}

// Classify returns the category for code. It never fails: codes outside the
// table resolve to Unknown.
func Classify(code int) models.ConditionCategory {
	desc, ok := descriptions[code]
	if !ok {
		return Unknown
	}
	icon, color := family(code)
	return models.ConditionCategory{Description: desc, Icon: icon, Color: color}
}

// ClassifyAt is Classify with night variants for clear and partly cloudy skies.
// A nil isDay is treated as daytime.
func ClassifyAt(code int, isDay *bool) models.ConditionCategory {
	c := Classify(code)
	if isDay == nil || *isDay {
		return c
	}
	switch c.Icon {
	case models.IconClear:
		c.Icon = models.IconClearNight
	case models.IconPartlyCloudy:
		c.Icon = models.IconPartlyCloudyNight
	}
	return c
}

// family groups codes by range; only called for codes present in the table
func family(code int) (models.IconKey, string) {
	switch {
	case code == 0:
		return models.IconClear, colorSun
	case code == 1 || code == 2:
		return models.IconPartlyCloudy, colorSun
	case code == 3:
		return models.IconOvercast, colorCloud
	case code == 45 || code == 48:
		return models.IconFog, colorFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return models.IconRain, colorWet
	case code >= 71 && code <= 86:
		return models.IconSnow, colorWet
	case code >= 95:
		return models.IconThunderstorm, colorSun
	}
	return models.IconUnknown, colorNeutral
}
