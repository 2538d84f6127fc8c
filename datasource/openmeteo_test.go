package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestProvider(baseURL string) *OpenMeteoProvider {
	return NewOpenMeteoProvider(OpenMeteoConfig{
		GeocodingURL: baseURL,
		ForecastURL:  baseURL,
		Timeout:      5 * time.Second,
	}, nil)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestSearchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("name"); got != "London" {
			t.Errorf("expected name=London, got %s", got)
		}
		if got := q.Get("count"); got != "1" {
			t.Errorf("expected count=1, got %s", got)
		}
		if got := q.Get("language"); got != "en" {
			t.Errorf("expected language=en, got %s", got)
		}
		if got := q.Get("format"); got != "json" {
			t.Errorf("expected format=json, got %s", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"results": []map[string]any{{
				"name": "London", "latitude": 51.50853, "longitude": -0.12574,
				"country": "United Kingdom", "country_code": "gb", "admin1": "England",
				"timezone": "Europe/London",
			}},
		})
	}))
	defer srv.Close()

	got, err := newTestProvider(srv.URL).Search(context.Background(), "London", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	m := got[0]
	if m.Name != "London" || m.AdminRegion != "England" || m.CountryCode != "GB" {
		t.Errorf("unexpected match %+v", m)
	}
	if m.Label() != "London, England, United Kingdom" {
		t.Errorf("unexpected label %q", m.Label())
	}
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"generationtime_ms": 0.5})
	}))
	defer srv.Close()

	got, err := newTestProvider(srv.URL).Search(context.Background(), "Atlantis", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestFetchForecastSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("latitude"); got != "51.5100" {
			t.Errorf("expected latitude=51.5100, got %s", got)
		}
		if got := q.Get("longitude"); got != "-0.1300" {
			t.Errorf("expected longitude=-0.1300, got %s", got)
		}
		if got := q.Get("timezone"); got != "auto" {
			t.Errorf("expected timezone=auto, got %s", got)
		}
		if got := q.Get("forecast_days"); got != "7" {
			t.Errorf("expected forecast_days=7, got %s", got)
		}
		if !strings.Contains(q.Get("daily"), "precipitation_probability_max") {
			t.Errorf("daily fields missing probability: %s", q.Get("daily"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"latitude": 51.5, "longitude": -0.12, "timezone": "Europe/London", "utc_offset_seconds": 3600,
			"current": {"time": "2026-10-19T14:00", "temperature_2m": 15.2, "weather_code": 2, "is_day": 1, "visibility": null},
			"hourly": {"time": ["2026-10-19T14:00"], "relative_humidity_2m": [72]},
			"daily": {"time": ["2026-10-19", "2026-10-20"], "temperature_2m_max": [17.4, null], "weather_code": [2, 61],
				"sunrise": ["2026-10-19T07:27", "2026-10-20T07:29"]}
		}`))
	}))
	defer srv.Close()

	p, err := newTestProvider(srv.URL).FetchForecast(context.Background(), 51.51, -0.13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Timezone != "Europe/London" || p.UTCOffsetSeconds != 3600 {
		t.Errorf("unexpected zone %s %d", p.Timezone, p.UTCOffsetSeconds)
	}
	if p.Current == nil || p.Current.Temperature == nil || *p.Current.Temperature != 15.2 {
		t.Fatalf("unexpected current block %+v", p.Current)
	}
	if p.Current.Visibility != nil {
		t.Error("expected null visibility to decode as nil")
	}
	if p.Daily == nil || len(p.Daily.Time) != 2 || p.Daily.TemperatureMax[1] != nil {
		t.Errorf("unexpected daily block %+v", p.Daily)
	}
	if p.Hourly == nil || len(p.Hourly.Humidity) != 1 {
		t.Errorf("unexpected hourly block %+v", p.Hourly)
	}
}

func TestFetchForecastBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, apiError{Error: true, Reason: "Latitude must be in range of -90 to 90°."})
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).FetchForecast(context.Background(), 123, 0)
	if err == nil {
		t.Fatal("expected error for 400 response, got nil")
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "Latitude must be in range") {
		t.Errorf("expected reason in error, got %q", err.Error())
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Search(context.Background(), "London", 1)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestFetchForecastContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := newTestProvider(srv.URL).FetchForecast(ctx, 51.51, -0.13)
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
	if errors.Is(err, ErrUpstream) {
		t.Errorf("transport failure must not look like an upstream answer: %v", err)
	}
}
