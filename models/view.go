package models

import (
	"time"
)

// WeatherViewModel is everything the rendering layer needs for one location
type WeatherViewModel struct {
	Location    LocationMatch       `json:"location"`
	Date        string              `json:"date"` // long, locale formatted
	Current     CurrentView         `json:"current"`
	Forecast    []ForecastViewEntry `json:"forecast"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// CurrentView holds display strings for the current conditions
type CurrentView struct {
	Temperature     string            `json:"temperature"`
	TemperatureUnit string            `json:"temperatureUnit"`
	Condition       ConditionCategory `json:"condition"`
	Humidity        string            `json:"humidity"`
	WindSpeed       string            `json:"windSpeed"`
	Pressure        string            `json:"pressure"`
	Visibility      string            `json:"visibility"`
	IsDaytime       *bool             `json:"isDaytime,omitempty"`
	ObservedAt      string            `json:"observedAt,omitempty"`
}

// ForecastViewEntry is one rendered forecast day
type ForecastViewEntry struct {
	Date          string              `json:"date"`
	Weekday       string              `json:"weekday"`
	DayOfMonth    int                 `json:"dayOfMonth"`
	TempMax       string              `json:"tempMax"`
	TempMin       string              `json:"tempMin"`
	Condition     ConditionCategory   `json:"condition"`
	Precipitation *PrecipitationBadge `json:"precipitation,omitempty"`
	Sunrise       string              `json:"sunrise,omitempty"`
	Sunset        string              `json:"sunset,omitempty"`
}

// PrecipitationBadge is shown only on days with expected precipitation
type PrecipitationBadge struct {
	Probability string `json:"probability"`
	Amount      string `json:"amount"`
	Label       string `json:"label"`
}
