// In file: internal/weather/client.go

// Package weather wraps the OpenWeatherMap "current weather" endpoint.
// A lookup is a single GET request; failures are reported through the
// sentinel errors below so callers can classify them with errors.Is.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	DefaultTimeout = 10 * time.Second

	currentWeatherPath = "/data/2.5/weather"
	// Reading fields are always Celsius.
	units = "metric"
)

var (
	ErrLocationNotFound    = errors.New("location not found")
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCredentials  = errors.New("weather provider rejected the API key")
	ErrEmptyLocation       = errors.New("location cannot be empty")
)

// Provider is anything that can report the current weather for a place name.
type Provider interface {
	Current(ctx context.Context, location string) (*Reading, error)
}

// Reading is a normalized snapshot of the provider's answer.
type Reading struct {
	Location     string  `json:"location"`
	Country      string  `json:"country,omitempty"`
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_c"`
	FeelsLikeC   float64 `json:"feels_like_c"`
	Humidity     int     `json:"humidity"`
}

// Summary renders the reading as a sentence the model can relay to the user.
func (r *Reading) Summary() string {
	return fmt.Sprintf(
		"The weather in %s is currently %s with a temperature of %.1f°C (feels like %.1f°C) and humidity of %d%%.",
		r.Location, r.Description, r.TemperatureC, r.FeelsLikeC, r.Humidity,
	)
}

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client talks to OpenWeatherMap. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("weather API key cannot be empty")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// owmResponse is the subset of the provider's payload we read. The "cod" field
// is a number on success and a string on errors, so it is decoded loosely.
type owmResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Main    struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func (r *owmResponse) code() string {
	return strings.Trim(string(r.Cod), `"`)
}

// Current fetches the current weather for location. It makes exactly one
// attempt; the caller decides what to do with a failure.
func (c *Client) Current(ctx context.Context, location string) (*Reading, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}
	log.Printf("--- Calling weather provider for location: '%s' ---", location)

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", units)
	endpoint := c.baseURL + currentWeatherPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}
	req.Header.Set("User-Agent", "TaskMaster-Agent/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: '%s'", ErrLocationNotFound, location)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var data owmResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: unexpected response format: %v", ErrProviderUnavailable, err)
	}
	switch data.code() {
	case "200":
	case "404":
		return nil, fmt.Errorf("%w: '%s'", ErrLocationNotFound, location)
	case "401":
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, data.Message)
	default:
		return nil, fmt.Errorf("%w: provider reported code %s: %s", ErrProviderUnavailable, data.code(), data.Message)
	}

	if data.Main.Temp == nil || data.Main.FeelsLike == nil || data.Main.Humidity == nil {
		return nil, fmt.Errorf("%w: unexpected response format: missing temperature fields", ErrProviderUnavailable)
	}
	if len(data.Weather) == 0 || strings.TrimSpace(data.Weather[0].Description) == "" {
		return nil, fmt.Errorf("%w: unexpected response format: missing conditions", ErrProviderUnavailable)
	}

	reading := &Reading{
		Location:     data.Name,
		Country:      data.Sys.Country,
		Description:  data.Weather[0].Description,
		TemperatureC: *data.Main.Temp,
		FeelsLikeC:   *data.Main.FeelsLike,
		Humidity:     *data.Main.Humidity,
	}
	if reading.Location == "" {
		reading.Location = location
	}
	log.Printf("--- Weather provider result: %s ---", reading.Summary())
	return reading, nil
}
