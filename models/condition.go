package models

// IconKey names a presentation-neutral weather icon
type IconKey string

const (
	IconClear             IconKey = "clear"
	IconClearNight        IconKey = "clear-night"
	IconPartlyCloudy      IconKey = "partly-cloudy"
	IconPartlyCloudyNight IconKey = "partly-cloudy-night"
	IconOvercast          IconKey = "overcast"
	IconFog               IconKey = "fog"
	IconRain              IconKey = "rain"
	IconSnow              IconKey = "snow"
	IconThunderstorm      IconKey = "thunderstorm"
	IconUnknown           IconKey = "unknown"
)

// ConditionCategory is the display classification of a weather code
type ConditionCategory struct {
	Description string  `json:"description"`
	Icon        IconKey `json:"icon"`
	Color       string  `json:"color"`
}
