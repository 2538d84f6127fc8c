package models

// DailyForecastEntry is one calendar day of the daily series
type DailyForecastEntry struct {
	Date                     string   `json:"date"` // YYYY-MM-DD, local to the location
	TempMax                  *float64 `json:"tempMax,omitempty"`
	TempMin                  *float64 `json:"tempMin,omitempty"`
	ConditionCode            int      `json:"conditionCode"`
	PrecipitationSum         *float64 `json:"precipitationSum,omitempty"`         // in mm
	PrecipitationProbability *float64 `json:"precipitationProbability,omitempty"` // percentage
	Sunrise                  string   `json:"sunrise,omitempty"`
	Sunset                   string   `json:"sunset,omitempty"`
}

// ForecastPayload mirrors the forecast service response. Any block may be missing.
type ForecastPayload struct {
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	Timezone         string        `json:"timezone"`
	UTCOffsetSeconds int           `json:"utc_offset_seconds"`
	Current          *CurrentBlock `json:"current"`
	Hourly           *HourlySeries `json:"hourly"`
	Daily            *DailySeries  `json:"daily"`
}

// CurrentBlock is the "current" object of the forecast response
type CurrentBlock struct {
	Time        string   `json:"time"`
	Temperature *float64 `json:"temperature_2m"`
	Humidity    *float64 `json:"relative_humidity_2m"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
	Pressure    *float64 `json:"pressure_msl"`
	Visibility  *float64 `json:"visibility"`
	WeatherCode *int     `json:"weather_code"`
	IsDay       *int     `json:"is_day"`
}

// HourlySeries holds the parallel hourly arrays
type HourlySeries struct {
	Time        []string   `json:"time"`
	Humidity    []*float64 `json:"relative_humidity_2m"`
	WindSpeed   []*float64 `json:"wind_speed_10m"`
	Pressure    []*float64 `json:"pressure_msl"`
	Visibility  []*float64 `json:"visibility"`
	WeatherCode []*int     `json:"weather_code"`
}

// DailySeries holds the parallel daily arrays, all indexed by day offset
type DailySeries struct {
	Time                     []string   `json:"time"`
	TemperatureMax           []*float64 `json:"temperature_2m_max"`
	TemperatureMin           []*float64 `json:"temperature_2m_min"`
	WeatherCode              []*int     `json:"weather_code"`
	PrecipitationSum         []*float64 `json:"precipitation_sum"`
	PrecipitationProbability []*float64 `json:"precipitation_probability_max"`
	Sunrise                  []string   `json:"sunrise"`
	Sunset                   []string   `json:"sunset"`
}

// FloatAt returns values[i] or nil when i is out of range
func FloatAt(values []*float64, i int) *float64 {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return nil
}

// IntAt returns values[i] or nil when i is out of range
func IntAt(values []*int, i int) *int {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return nil
}

// StringAt returns values[i] or "" when i is out of range
func StringAt(values []string, i int) string {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return ""
}
