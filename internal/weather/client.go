package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the open-meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Location is where the weather is reported for.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// DefaultLocation is used when settings carry no location.
var DefaultLocation = Location{
	Name:      "Mumbai, India",
	Latitude:  19.0760,
	Longitude: 72.8777,
	Timezone:  "Asia/Kolkata",
}

// Report is the current weather.
type Report struct {
	Temperature int
	Code        int
	Condition   string
	Symbol      string
	Location    string
	FetchedAt   time.Time
}

// Client fetches current conditions from open-meteo.
type Client struct {
	httpClient *http.Client
	baseURL    string
	location   Location
}

// NewClient creates a client. A nil httpClient gets a 10 second timeout.
func NewClient(httpClient *http.Client, baseURL string, location Location) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if location.Name == "" {
		location = DefaultLocation
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, location: location}
}

// Location returns the configured location.
func (client *Client) Location() Location {
	return client.location
}

type forecastResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weathercode"`
	} `json:"current"`
}

// Current fetches the current temperature and condition.
func (client *Client) Current(ctx context.Context) (Report, error) {
	endpoint, err := url.Parse(client.baseURL)
	if err != nil {
		return Report{}, fmt.Errorf("parse weather url: %w", err)
	}
	query := endpoint.Query()
	query.Set("latitude", strconv.FormatFloat(client.location.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(client.location.Longitude, 'f', 4, 64))
	query.Set("current", "temperature_2m,weathercode")
	if client.location.Timezone != "" {
		query.Set("timezone", client.location.Timezone)
	}
	endpoint.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return Report{}, fmt.Errorf("build weather request: %w", err)
	}
	response, err := client.httpClient.Do(request)
	if err != nil {
		return Report{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("fetch weather: unexpected status %s", response.Status)
	}

	var payload forecastResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Report{}, fmt.Errorf("decode weather: %w", err)
	}
	if payload.Current.Temperature == nil || payload.Current.WeatherCode == nil {
		return Report{}, fmt.Errorf("decode weather: %w", ErrIncomplete)
	}

	code := *payload.Current.WeatherCode
	condition := Describe(code)
	return Report{
		Temperature: int(math.Round(*payload.Current.Temperature)),
		Code:        code,
		Condition:   condition.Text,
		Symbol:      condition.Symbol,
		Location:    client.location.Name,
		FetchedAt:   time.Now(),
	}, nil
}
