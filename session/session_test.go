package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"skycast/models"
	"skycast/viewmodel"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

var (
	london = models.LocationMatch{Name: "London", Country: "United Kingdom", Latitude: 51.51, Longitude: -0.13}
	paris  = models.LocationMatch{Name: "Paris", Country: "France", Latitude: 48.85, Longitude: 2.35}
)

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string][]models.LocationMatch
	err     error
	calls   int
	gate    chan struct{}
	started chan string
}

func (g *fakeGeocoder) Name() string { return "fake" }

func (g *fakeGeocoder) Search(ctx context.Context, query string, count int) ([]models.LocationMatch, error) {
	g.mu.Lock()
	gate, started := g.gate, g.started
	g.mu.Unlock()
	if started != nil {
		started <- query
	}
	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	matches := g.results[query]
	if len(matches) > count {
		matches = matches[:count]
	}
	return matches, nil
}

type fakeForecasts struct {
	mu       sync.Mutex
	payloads map[float64]*models.ForecastPayload
	gates    map[float64]chan struct{}
	started  chan float64
	err      error
}

func (s *fakeForecasts) Name() string { return "fake" }

func (s *fakeForecasts) FetchForecast(ctx context.Context, lat, lon float64) (*models.ForecastPayload, error) {
	s.mu.Lock()
	gate := s.gates[lat]
	payload := s.payloads[lat]
	err := s.err
	s.mu.Unlock()

	if s.started != nil {
		s.started <- lat
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func payload(temp float64, code int) *models.ForecastPayload {
	return &models.ForecastPayload{
		Timezone: "UTC",
		Current:  &models.CurrentBlock{Temperature: f(temp), WeatherCode: i(code)},
		Daily: &models.DailySeries{
			Time:           []string{"2026-10-19", "2026-10-20", "2026-10-21", "2026-10-22", "2026-10-23"},
			TemperatureMax: []*float64{f(17), f(18), f(19), f(20), f(21)},
			TemperatureMin: []*float64{f(7), f(8), f(9), f(10), f(11)},
			WeatherCode:    []*int{i(2), i(3), i(61), i(0), i(95)},
		},
	}
}

func newTestSession(g *fakeGeocoder, fc *fakeForecasts) *Session {
	s := New(g, fc, viewmodel.DefaultOptions(), nil)
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSearchLondon(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]models.LocationMatch{"London": {london}}}
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2)}}
	s := newTestSession(g, fc)

	r := s.Handle(context.Background(), Search{Query: "  London "})
	if r.Status != StatusOK {
		t.Fatalf("expected ok, got %s (%s)", r.Status, r.Message)
	}
	snap := r.Snapshot
	if snap.Phase != PhasePopulated || snap.Pending {
		t.Errorf("unexpected phase %s pending=%v", snap.Phase, snap.Pending)
	}
	if snap.View == nil {
		t.Fatal("expected a view model")
	}
	if snap.View.Current.Temperature != "15" {
		t.Errorf("expected 15, got %q", snap.View.Current.Temperature)
	}
	if snap.View.Current.Condition.Description != "Partly cloudy" || snap.View.Current.Condition.Icon != models.IconPartlyCloudy {
		t.Errorf("unexpected condition %+v", snap.View.Current.Condition)
	}
	if snap.Location == nil || *snap.Location != london {
		t.Errorf("unexpected location %+v", snap.Location)
	}
}

func TestNetworkErrorKeepsView(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]models.LocationMatch{"London": {london}}}
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2)}}
	s := newTestSession(g, fc)

	first := s.Handle(context.Background(), Search{Query: "London"})
	if first.Status != StatusOK {
		t.Fatalf("setup failed: %s", first.Status)
	}

	fc.err = errors.New("connection refused")
	r := s.Handle(context.Background(), Refresh{})
	if r.Status != StatusNetworkError {
		t.Fatalf("expected network error, got %s", r.Status)
	}
	if r.Snapshot.View == nil || r.Snapshot.View.Current.Temperature != "15" {
		t.Errorf("expected previous view to survive, got %+v", r.Snapshot.View)
	}
	if r.Snapshot.View != first.Snapshot.View {
		t.Error("expected the very same view model to be retained")
	}
	if r.Snapshot.Phase != PhasePopulated {
		t.Errorf("expected populated phase, got %s", r.Snapshot.Phase)
	}
}

func TestLocationNotFoundKeepsView(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]models.LocationMatch{"London": {london}}}
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2)}}
	s := newTestSession(g, fc)
	s.Handle(context.Background(), Search{Query: "London"})

	r := s.Handle(context.Background(), Search{Query: "Atlantis"})
	if r.Status != StatusLocationNotFound {
		t.Fatalf("expected location_not_found, got %s", r.Status)
	}
	if r.Message == "" {
		t.Error("expected a user message")
	}
	if r.Snapshot.View == nil || r.Snapshot.Location.Name != "London" {
		t.Errorf("expected London to stay selected, got %+v", r.Snapshot.Location)
	}
}

func TestGeocoderErrorIsNetworkError(t *testing.T) {
	g := &fakeGeocoder{err: errors.New("timeout")}
	s := newTestSession(g, &fakeForecasts{})

	r := s.Handle(context.Background(), Search{Query: "London"})
	if r.Status != StatusNetworkError {
		t.Errorf("expected network_error, got %s", r.Status)
	}
	if r.Snapshot.Phase != PhaseEmpty {
		t.Errorf("expected empty phase, got %s", r.Snapshot.Phase)
	}
}

func TestMalformedPayloadKeepsView(t *testing.T) {
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{
		51.51: payload(15.2, 2),
		48.85: {Current: &models.CurrentBlock{}},
	}}
	s := newTestSession(&fakeGeocoder{}, fc)
	s.Handle(context.Background(), Select{Location: london})

	r := s.Handle(context.Background(), Select{Location: paris})
	if r.Status != StatusMalformedPayload {
		t.Fatalf("expected malformed_payload, got %s", r.Status)
	}
	if r.Snapshot.View == nil || r.Snapshot.View.Location.Name != "London" {
		t.Errorf("expected London view to be retained, got %+v", r.Snapshot.View)
	}
	if r.Snapshot.Phase != PhaseResolved || r.Snapshot.Location.Name != "Paris" {
		t.Errorf("expected Paris resolved, got %s %+v", r.Snapshot.Phase, r.Snapshot.Location)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	fc := &fakeForecasts{
		payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2), 48.85: payload(21.4, 0)},
		gates:    map[float64]chan struct{}{51.51: gate},
		started:  make(chan float64, 2),
	}
	s := newTestSession(&fakeGeocoder{}, fc)

	done := make(chan Result, 1)
	go func() {
		done <- s.Handle(context.Background(), Select{Location: london})
	}()
	if lat := <-fc.started; lat != 51.51 {
		t.Fatalf("expected London request first, got %v", lat)
	}

	b := s.Handle(context.Background(), Select{Location: paris})
	<-fc.started
	if b.Status != StatusOK {
		t.Fatalf("expected Paris to apply, got %s", b.Status)
	}

	close(gate)
	a := <-done
	if a.Status != StatusStale {
		t.Errorf("expected London response to be stale, got %s", a.Status)
	}

	snap := s.Store().Snapshot()
	if snap.View == nil || snap.View.Location.Name != "Paris" || snap.View.Current.Temperature != "21" {
		t.Errorf("expected Paris view, got %+v", snap.View)
	}
}

func TestBackgroundRefreshYieldsToPendingSearch(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]models.LocationMatch{"London": {london}, "Paris": {paris}}}
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2), 48.85: payload(21.4, 0)}}
	s := newTestSession(g, fc)

	if r := s.Handle(context.Background(), Search{Query: "London"}); r.Status != StatusOK {
		t.Fatalf("setup search failed: %s", r.Status)
	}

	gate := make(chan struct{})
	g.mu.Lock()
	g.gate, g.started = gate, make(chan string, 1)
	started := g.started
	g.mu.Unlock()

	done := make(chan Result, 1)
	go func() {
		done <- s.Handle(context.Background(), Search{Query: "Paris"})
	}()
	<-started

	before := s.Store().Snapshot().Generation
	bg := s.Handle(context.Background(), Refresh{Background: true})
	if bg.Status != StatusSkipped {
		t.Errorf("expected background refresh to be skipped, got %s", bg.Status)
	}
	if bg.Snapshot.Generation != before {
		t.Errorf("background refresh must not issue a token: %d -> %d", before, bg.Snapshot.Generation)
	}

	close(gate)
	user := <-done
	if user.Status != StatusOK {
		t.Fatalf("expected the user's search to apply, got %s", user.Status)
	}
	snap := s.Store().Snapshot()
	if snap.View == nil || snap.View.Location.Name != "Paris" {
		t.Errorf("expected Paris view, got %+v", snap.View)
	}

	// once idle, a background refresh proceeds
	if r := s.Handle(context.Background(), Refresh{Background: true}); r.Status != StatusOK || r.Snapshot.View.Location.Name != "Paris" {
		t.Errorf("expected idle background refresh to succeed, got %s", r.Status)
	}
}

func TestSkipTodayWindow(t *testing.T) {
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2)}}
	opts := viewmodel.DefaultOptions()
	opts.Window.SkipToday = true
	s := New(&fakeGeocoder{}, fc, opts, nil)

	r := s.Handle(context.Background(), Select{Location: london})
	if r.Snapshot.View == nil || len(r.Snapshot.View.Forecast) != 4 {
		t.Fatalf("expected 4 forecast days, got %+v", r.Snapshot.View)
	}
	if r.Snapshot.View.Forecast[0].Date != "2026-10-20" {
		t.Errorf("expected forecast to start tomorrow, got %s", r.Snapshot.View.Forecast[0].Date)
	}
}

func TestSuggest(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]models.LocationMatch{"Lo": {london, {Name: "Los Angeles", Latitude: 34.05, Longitude: -118.24}}}}
	s := newTestSession(g, &fakeForecasts{})

	if r := s.Handle(context.Background(), Suggest{Query: "L"}); r.Status != StatusOK || len(r.Suggestions) != 0 {
		t.Errorf("expected no suggestions for short query, got %+v", r)
	}
	if g.calls != 0 {
		t.Errorf("expected no lookups for short query, got %d", g.calls)
	}

	r := s.Handle(context.Background(), Suggest{Query: "Lo"})
	if len(r.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(r.Suggestions))
	}
	if r.Snapshot.Generation != 0 {
		t.Errorf("suggestions must not issue tokens, generation=%d", r.Snapshot.Generation)
	}
}

func TestRefresh(t *testing.T) {
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2)}}
	s := newTestSession(&fakeGeocoder{}, fc)

	if r := s.Handle(context.Background(), Refresh{}); r.Status != StatusOK || r.Snapshot.Phase != PhaseEmpty {
		t.Errorf("refresh without selection should be a no-op, got %+v", r)
	}

	s.Handle(context.Background(), Select{Location: london})
	fc.payloads[51.51] = payload(16.6, 3)

	r := s.Handle(context.Background(), Refresh{})
	if r.Status != StatusOK || r.Snapshot.View.Current.Temperature != "17" {
		t.Errorf("expected refreshed view, got %s %+v", r.Status, r.Snapshot.View)
	}
	if r.Snapshot.Generation != 2 {
		t.Errorf("expected generation 2, got %d", r.Snapshot.Generation)
	}
}

func TestInvalidRequests(t *testing.T) {
	s := newTestSession(&fakeGeocoder{}, &fakeForecasts{})

	for name, a := range map[string]Action{
		"empty search": Search{Query: "   "},
		"bad latitude": Geolocate{Latitude: 91, Longitude: 0},
		"bad select":   Select{Location: models.LocationMatch{Name: "x", Latitude: 0, Longitude: 200}},
	} {
		if r := s.Handle(context.Background(), a); r.Status != StatusInvalidRequest {
			t.Errorf("%s: expected invalid_request, got %s", name, r.Status)
		}
	}
	if s.Store().Snapshot().Generation != 0 {
		t.Error("invalid requests must not issue tokens")
	}
}

func TestGeolocate(t *testing.T) {
	fc := &fakeForecasts{payloads: map[float64]*models.ForecastPayload{51.51: payload(15.2, 2)}}
	s := newTestSession(&fakeGeocoder{}, fc)

	r := s.Handle(context.Background(), Geolocate{Latitude: 51.51, Longitude: -0.13})
	if r.Status != StatusOK {
		t.Fatalf("expected ok, got %s", r.Status)
	}
	if r.Snapshot.Location.Name != "51.51, -0.13" {
		t.Errorf("unexpected name %q", r.Snapshot.Location.Name)
	}
}
