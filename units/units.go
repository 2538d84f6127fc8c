// Package units turns raw numeric weather fields into display strings.
package units

import (
	"math"
	"strconv"
)

// Placeholder is shown for any missing value
const Placeholder = "--"

// TemperatureUnit labels values produced by Temperature
const TemperatureUnit = "°C"

// Temperature rounds to a whole number, without unit: "15"
func Temperature(v *float64) string {
	return whole(v, "")
}

// Degrees rounds to a whole number with a degree sign: "15°"
func Degrees(v *float64) string {
	return whole(v, "°")
}

// WindSpeed rounds km/h to a whole number: "12 km/h"
func WindSpeed(v *float64) string {
	return whole(v, " km/h")
}

// Pressure rounds hPa to a whole number: "1013 hPa"
func Pressure(v *float64) string {
	return whole(v, " hPa")
}

// Visibility converts meters to kilometers with one decimal: "24.1 km"
func Visibility(v *float64) string {
	if !valid(v) {
		return Placeholder
	}
	return strconv.FormatFloat(*v/1000, 'f', 1, 64) + " km"
}

// Precipitation formats millimeters with one decimal: "0.4mm"
func Precipitation(v *float64) string {
	if !valid(v) {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "mm"
}

// Percent formats an already percent-scaled value as a whole percent: "72%"
func Percent(v *float64) string {
	return whole(v, "%")
}

// Round rounds half away from negative infinity, so -2.5 becomes -2
func Round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func whole(v *float64, suffix string) string {
	if !valid(v) {
		return Placeholder
	}
	return strconv.FormatInt(Round(*v), 10) + suffix
}

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
