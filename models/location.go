package models

import "strings"

// LocationMatch is a single geocoding result
type LocationMatch struct {
	Name        string  `json:"name"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	AdminRegion string  `json:"adminRegion,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Label joins name, region and country, skipping the blank ones
func (l LocationMatch) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Name, l.AdminRegion, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
