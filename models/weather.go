package models

import (
	"time"
)

// CurrentConditions is the normalized current observation. Optional fields are nil when
// the upstream payload did not carry them.
type CurrentConditions struct {
	Temperature   *float64   `json:"temperature,omitempty"` // in Celsius
	Humidity      *float64   `json:"humidity,omitempty"`    // percentage
	WindSpeed     *float64   `json:"windSpeed,omitempty"`   // in km/h
	Pressure      *float64   `json:"pressure,omitempty"`    // in hPa
	Visibility    *float64   `json:"visibility,omitempty"`  // in meters
	ConditionCode int        `json:"conditionCode"`
	IsDaytime     *bool      `json:"isDaytime,omitempty"`
	ObservedAt    *time.Time `json:"observedAt,omitempty"`
}
