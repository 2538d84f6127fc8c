package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"
)

// state mirrors the parts of the API answer this example prints
type state struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	State   struct {
		Phase string `json:"phase"`
		View  *struct {
			Date    string `json:"date"`
			Current struct {
				Temperature     string `json:"temperature"`
				TemperatureUnit string `json:"temperatureUnit"`
				Condition       struct {
					Description string `json:"description"`
					Icon        string `json:"icon"`
				} `json:"condition"`
			} `json:"current"`
			Forecast []struct {
				Weekday string `json:"weekday"`
				TempMax string `json:"tempMax"`
				TempMin string `json:"tempMin"`
			} `json:"forecast"`
			Location struct {
				Name    string `json:"name"`
				Country string `json:"country"`
			} `json:"location"`
		} `json:"view"`
	} `json:"state"`
	Suggestions []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"suggestions"`
	Icons map[string]string `json:"icons"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "SkyCast server address")
	city := flag.String("city", "Paris", "City to search for")
	flag.Parse()

	fmt.Println("SkyCast API Client Example")
	fmt.Println("==========================")

	// The session lives in a cookie, so keep one jar for every call
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 15 * time.Second}

	fmt.Printf("\nSuggestions for %q:\n", *city)
	suggest, err := call(client, http.MethodGet, *baseURL+"/api/suggest?q="+url.QueryEscape(*city), nil)
	if err != nil {
		fmt.Printf("Error fetching suggestions: %v\n", err)
		os.Exit(1)
	}
	for _, s := range suggest.Suggestions {
		fmt.Printf("  - %s, %s\n", s.Name, s.Country)
	}

	fmt.Printf("\nSearching for %s...\n", *city)
	res, err := call(client, http.MethodPost, *baseURL+"/api/search", map[string]string{"query": *city})
	if err != nil {
		fmt.Printf("Error searching: %v\n", err)
		os.Exit(1)
	}
	if res.Status != "ok" || res.State.View == nil {
		fmt.Printf("Search failed (%s): %s\n", res.Status, res.Message)
		os.Exit(1)
	}

	view := res.State.View
	fmt.Printf("\n%s, %s - %s\n", view.Location.Name, view.Location.Country, view.Date)
	fmt.Printf("Now: %s%s, %s (%s)\n", view.Current.Temperature, view.Current.TemperatureUnit,
		view.Current.Condition.Description, res.Icons[view.Current.Condition.Icon])
	for _, day := range view.Forecast {
		fmt.Printf("  %s  %s / %s\n", day.Weekday, day.TempMax, day.TempMin)
	}
}

func call(client *http.Client, method, endpoint string, body any) (*state, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out state
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}
