package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"skycast/datasource"
	"skycast/models"
	"skycast/viewmodel"
)

const (
	msgNotFound  = "City not found. Please try another city."
	msgSearch    = "Error searching for city. Please try again."
	msgFetch     = "Failed to fetch weather data. Please try again."
	msgMalformed = "Weather service returned incomplete data."
)

// Result is what one handled action produced
type Result struct {
	Status      Status                 `json:"status"`
	Message     string                 `json:"message,omitempty"`
	Snapshot    Snapshot               `json:"state"`
	Suggestions []models.LocationMatch `json:"suggestions,omitempty"`
}

// Session runs actions for one user against the lookup collaborators
type Session struct {
	store     *Store
	geocoder  datasource.Geocoder
	forecasts datasource.ForecastSource
	opts      viewmodel.Options
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a session with an empty selection
func New(geocoder datasource.Geocoder, forecasts datasource.ForecastSource, opts viewmodel.Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:     NewStore(),
		geocoder:  geocoder,
		forecasts: forecasts,
		opts:      opts,
		now:       time.Now,
		logger:    logger,
	}
}

// Store exposes the selection store
func (s *Session) Store() *Store {
	return s.store
}

// Handle dispatches a and carries out the resulting effects. Calls may
// overlap; a result whose token was superseded is dropped and reported as
// StatusStale.
func (s *Session) Handle(ctx context.Context, a Action) Result {
	effect := s.store.Dispatch(a)
	for {
		switch effect.Kind {
		case EffectSuggest:
			return s.suggest(ctx, effect)
		case EffectGeocode:
			effect = s.geocode(ctx, effect)
		case EffectFetch:
			return s.fetch(ctx, effect)
		default:
			return s.result(effect.Status, effect.Message)
		}
	}
}

func (s *Session) suggest(ctx context.Context, e Effect) Result {
	matches, err := s.geocoder.Search(ctx, e.Query, e.Count)
	if err != nil {
		s.logger.Warn("suggestion lookup failed", zap.String("query", e.Query), zap.Error(err))
		return s.result(StatusNetworkError, msgSearch)
	}
	r := s.result(StatusOK, "")
	r.Suggestions = matches
	return r
}

func (s *Session) geocode(ctx context.Context, e Effect) Effect {
	matches, err := s.geocoder.Search(ctx, e.Query, e.Count)
	if err != nil {
		s.logger.Warn("location search failed", zap.String("query", e.Query), zap.Error(err))
		return s.fail(e.Token, StatusNetworkError, msgSearch)
	}
	if len(matches) == 0 {
		s.logger.Info("location not found", zap.String("query", e.Query))
		return s.fail(e.Token, StatusLocationNotFound, msgNotFound)
	}
	return s.store.Resolved(e.Token, matches[0])
}

func (s *Session) fetch(ctx context.Context, e Effect) Result {
	loc := e.Location
	payload, err := s.forecasts.FetchForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.logger.Warn("forecast fetch failed",
			zap.String("location", loc.Name), zap.Uint64("generation", e.Token), zap.Error(err))
		f := s.fail(e.Token, StatusNetworkError, msgFetch)
		return s.result(f.Status, f.Message)
	}

	view, err := viewmodel.Build(loc, payload, s.now(), s.opts)
	if err != nil {
		status := StatusNetworkError
		if errors.Is(err, viewmodel.ErrMalformedPayload) {
			status = StatusMalformedPayload
		}
		s.logger.Warn("forecast payload rejected", zap.String("location", loc.Name), zap.Error(err))
		f := s.fail(e.Token, status, msgMalformed)
		return s.result(f.Status, f.Message)
	}

	if !s.store.Populate(e.Token, view) {
		s.logger.Debug("discarding stale forecast", zap.String("location", loc.Name), zap.Uint64("generation", e.Token))
		return s.result(StatusStale, "")
	}
	return s.result(StatusOK, "")
}

// fail records a failure under token and returns the terminal effect
func (s *Session) fail(token uint64, status Status, message string) Effect {
	if !s.store.Fail(token, status, message) {
		return Effect{Kind: EffectNone, Token: token, Status: StatusStale}
	}
	return Effect{Kind: EffectNone, Token: token, Status: status, Message: message}
}

func (s *Session) result(status Status, message string) Result {
	if status == "" {
		status = StatusOK
	}
	return Result{Status: status, Message: message, Snapshot: s.store.Snapshot()}
}
