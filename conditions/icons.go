package conditions

import (
	"fmt"
	"sort"
	"strings"

	"skycast/models"
)

// IconSet renders icon keys for one presentation layer
type IconSet struct {
	Name  string
	icons map[models.IconKey]string
}

// FontAwesome uses the Font Awesome classes of the web front end
var FontAwesome = IconSet{
	Name: "fontawesome",
	icons: map[models.IconKey]string{
		models.IconClear:             "fas fa-sun",
		models.IconClearNight:        "fas fa-moon",
		models.IconPartlyCloudy:      "fas fa-cloud-sun",
		models.IconPartlyCloudyNight: "fas fa-cloud-moon",
		models.IconOvercast:          "fas fa-cloud",
		models.IconFog:               "fas fa-smog",
		models.IconRain:              "fas fa-cloud-rain",
		models.IconSnow:              "fas fa-snowflake",
		models.IconThunderstorm:      "fas fa-bolt",
		models.IconUnknown:           "fas fa-cloud",
	},
}

// Emoji is used by terminal output
var Emoji = IconSet{
	Name: "emoji",
	icons: map[models.IconKey]string{
		models.IconClear:             "☀️",
		models.IconClearNight:        "🌙",
		models.IconPartlyCloudy:      "⛅",
		models.IconPartlyCloudyNight: "☁️",
		models.IconOvercast:          "☁️",
		models.IconFog:               "🌫️",
		models.IconRain:              "🌧️",
		models.IconSnow:              "❄️",
		models.IconThunderstorm:      "⛈️",
		models.IconUnknown:           "❓",
	},
}

// Icon returns the rendering of key, falling back to the unknown icon
func (s IconSet) Icon(key models.IconKey) string {
	if icon, ok := s.icons[key]; ok {
		return icon
	}
	return s.icons[models.IconUnknown]
}

// Map returns a copy of the full key to icon mapping
func (s IconSet) Map() map[models.IconKey]string {
	out := make(map[models.IconKey]string, len(s.icons))
	for k, v := range s.icons {
		out[k] = v
	}
	return out
}

// IconSetByName looks up a built-in icon set
func IconSetByName(name string) (IconSet, error) {
	sets := map[string]IconSet{FontAwesome.Name: FontAwesome, Emoji.Name: Emoji}
	if set, ok := sets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return set, nil
	}
	names := make([]string, 0, len(sets))
	for n := range sets {
		names = append(names, n)
	}
	sort.Strings(names)
	return IconSet{}, fmt.Errorf("unknown icon set %q (available: %s)", name, strings.Join(names, ", "))
}
