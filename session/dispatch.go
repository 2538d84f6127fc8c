package session

import (
	"fmt"
	"math"
	"strings"

	"skycast/models"
)

const (
	// SearchCount is how many matches a search asks for; the first one wins
	SearchCount = 1
	// SuggestCount is how many matches are offered while typing
	SuggestCount = 8
	// MinSuggestLength is the shortest query that produces suggestions
	MinSuggestLength = 2
)

// Action is a user intent
type Action interface {
	action()
}

// Search looks up a place by name and shows its weather
type Search struct{ Query string }

// Suggest lists matching places without changing the selection
type Suggest struct{ Query string }

// Select shows the weather for a location the user picked
type Select struct{ Location models.LocationMatch }

// Geolocate shows the weather for device coordinates
type Geolocate struct{ Latitude, Longitude float64 }

// Refresh refetches the weather for the current selection. A Background
// refresh never supersedes a request that is still pending.
type Refresh struct{ Background bool }

func (Search) action()    {}
func (Suggest) action()   {}
func (Select) action()    {}
func (Geolocate) action() {}
func (Refresh) action()   {}

// EffectKind names the work an Effect asks for
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectGeocode
	EffectSuggest
	EffectFetch
)

func (k EffectKind) String() string {
	switch k {
	case EffectGeocode:
		return "geocode"
	case EffectSuggest:
		return "suggest"
	case EffectFetch:
		return "fetch"
	}
	return "none"
}

// Effect describes the next lookup to perform. Token is the generation the
// result must be applied under; suggestions carry none.
type Effect struct {
	Kind     EffectKind
	Token    uint64
	Query    string
	Count    int
	Location models.LocationMatch
	Status   Status
	Message  string
}

// Dispatch turns an action into the next effect, issuing a generation
// token for every action that will replace the view model
func (s *Store) Dispatch(a Action) Effect {
	switch a := a.(type) {
	case Search:
		query := strings.TrimSpace(a.Query)
		if query == "" {
			return Effect{Kind: EffectNone, Status: StatusInvalidRequest, Message: "Please enter a city name."}
		}
		return Effect{Kind: EffectGeocode, Token: s.Begin(), Query: query, Count: SearchCount}

	case Suggest:
		query := strings.TrimSpace(a.Query)
		if len([]rune(query)) < MinSuggestLength {
			return Effect{Kind: EffectNone, Status: StatusOK}
		}
		return Effect{Kind: EffectSuggest, Query: query, Count: SuggestCount}

	case Select:
		if err := validCoordinates(a.Location.Latitude, a.Location.Longitude); err != nil {
			return Effect{Kind: EffectNone, Status: StatusInvalidRequest, Message: err.Error()}
		}
		return s.Resolved(s.Begin(), a.Location)

	case Geolocate:
		if err := validCoordinates(a.Latitude, a.Longitude); err != nil {
			return Effect{Kind: EffectNone, Status: StatusInvalidRequest, Message: err.Error()}
		}
		loc := models.LocationMatch{
			Name:      fmt.Sprintf("%.2f, %.2f", a.Latitude, a.Longitude),
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
		}
		return s.Resolved(s.Begin(), loc)

	case Refresh:
		token, loc, ok := s.beginRefresh(a.Background)
		switch {
		case loc == nil:
			return Effect{Kind: EffectNone, Status: StatusOK}
		case !ok:
			return Effect{Kind: EffectNone, Status: StatusSkipped}
		}
		return Effect{Kind: EffectFetch, Token: token, Location: *loc}
	}
	return Effect{Kind: EffectNone, Status: StatusInvalidRequest, Message: fmt.Sprintf("unsupported action %T", a)}
}

// Resolved records loc under token and returns the fetch that follows. A
// superseded token yields EffectNone with StatusStale.
func (s *Store) Resolved(token uint64, loc models.LocationMatch) Effect {
	if !s.Resolve(token, loc) {
		return Effect{Kind: EffectNone, Token: token, Status: StatusStale}
	}
	return Effect{Kind: EffectFetch, Token: token, Location: loc}
}

func validCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid coordinates %v, %v", lat, lon)
	}
	return nil
}
