package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kharagpurBody = `{
	"cod": 200,
	"name": "Kharagpur",
	"main": {"temp": 31.4, "feels_like": 36.2, "humidity": 70},
	"weather": [{"description": "scattered clouds"}],
	"sys": {"country": "IN"}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestCurrentSuccess(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Kharagpur", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(kharagpurBody))
	})

	reading, err := c.Current(context.Background(), "  Kharagpur ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "Kharagpur", reading.Location)
	assert.Equal(t, "IN", reading.Country)
	assert.Equal(t, "scattered clouds", reading.Description)
	assert.InDelta(t, 31.4, reading.TemperatureC, 0.001)
	assert.InDelta(t, 36.2, reading.FeelsLikeC, 0.001)
	assert.Equal(t, 70, reading.Humidity)
	assert.Contains(t, reading.Summary(), "Kharagpur")
	assert.Contains(t, reading.Summary(), "31.4°C")
}

func TestCurrentFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found status", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, ErrLocationNotFound},
		{"not found in body", http.StatusOK, `{"cod":"404","message":"city not found"}`, ErrLocationNotFound},
		{"bad key", http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key"}`, ErrInvalidCredentials},
		{"server error", http.StatusBadGateway, `oops`, ErrProviderUnavailable},
		{"garbage body", http.StatusOK, `not json`, ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			reading, err := c.Current(context.Background(), "Atlantis")
			assert.Nil(t, reading)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCurrentEmptyLocationSkipsProvider(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	_, err := c.Current(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyLocation)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCurrentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{APIKey: "k", BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Current(context.Background(), "London")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestCurrentRejectsIncompletePayload(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"cod":200,"name":"Oslo"}`,
		`{"cod":200,"main":{"temp":10}}`,
		`{"cod":200,"main":{"temp":10,"feels_like":8,"humidity":70}}`,
		`{"cod":200,"main":{"temp":10,"feels_like":8,"humidity":70},"weather":[{"description":""}]}`,
		`{"main":{"temp":10,"feels_like":8,"humidity":70},"weather":[{"description":"rain"}]}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		reading, err := c.Current(context.Background(), "Oslo")
		assert.ErrorIs(t, err, ErrProviderUnavailable, body)
		assert.Nil(t, reading, body)
	}
}

func TestCurrentAcceptsZeroValues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cod":200,"main":{"temp":0,"feels_like":-3.5,"humidity":0},"weather":[{"description":"clear sky"}]}`))
	})
	reading, err := c.Current(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", reading.Location)
	assert.Equal(t, "clear sky", reading.Description)
	assert.Zero(t, reading.TemperatureC)
	assert.InDelta(t, -3.5, reading.FeelsLikeC, 0.001)
}
