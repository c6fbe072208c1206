package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirections_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/json", r.URL.Path)
		assert.Equal(t, "37.774900,-122.419400", r.URL.Query().Get("origin"))
		assert.Equal(t, "walking", r.URL.Query().Get("mode"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "OK", "routes": [{"legs": [{
			"distance": {"text": "1.2 km", "value": 1200},
			"duration": {"text": "15 mins", "value": 900},
			"start_address": "Market St",
			"end_address": "Valencia St",
			"steps": [{"html_instructions": "Head <b>south</b>", "distance": {"text": "1.2 km", "value": 1200}, "duration": {"text": "15 mins", "value": 900}, "travel_mode": "WALKING"}]
		}]}]}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Directions(context.Background(), DirectionsRequest{
		Origin:      LatLng{Latitude: 37.7749, Longitude: -122.4194},
		Destination: LatLng{Latitude: 37.77, Longitude: -122.422},
		Mode:        ModeWalking,
	})

	require.NoError(t, err)
	leg := resp.Routes[0].Legs[0]
	assert.Equal(t, "1.2 km", leg.Distance.Text)
	assert.InDelta(t, 900, leg.Duration.Value, 0.001)
	require.Len(t, leg.Steps, 1)
	assert.Equal(t, "WALKING", leg.Steps[0].TravelMode)
}

func TestDirections_DefaultMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ModeDriving, r.URL.Query().Get("mode"))
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "routes": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Directions(context.Background(), DirectionsRequest{})
	assert.ErrorIs(t, err, ErrZeroResults)
}

func TestDirections_InvalidMode(t *testing.T) {
	_, err := NewClient("test-key").Directions(context.Background(), DirectionsRequest{Mode: "teleport"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestDirections_StatusError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"quota", `{"status": "OVER_QUERY_LIMIT"}`, "Quota exceeded. Try again later."},
		{"denied", `{"status": "REQUEST_DENIED"}`, "Request was denied. Check your API key settings."},
		{"explicit message wins", `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`, "The provided API key is invalid."},
		{"unmapped", `{"status": "INVALID_REQUEST"}`, "Directions failed: INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Directions(context.Background(), DirectionsRequest{})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.expected, apiErr.Message)
		})
	}
}

func TestStaticMapURL(t *testing.T) {
	client := NewClient("test-key", WithMapsBaseURL("https://maps.example.com/api"))

	raw := client.StaticMapURL(StaticMapRequest{
		Origin:      LatLng{Latitude: 1, Longitude: 2},
		Midpoint:    LatLng{Latitude: 3, Longitude: 4},
		Destination: LatLng{Latitude: 5, Longitude: 6},
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/staticmap", u.Path)
	assert.Equal(t, "600x300", u.Query().Get("size"))
	assert.Equal(t, []string{
		"color:red|label:A|1.000000,2.000000",
		"color:green|label:M|3.000000,4.000000",
		"color:blue|label:B|5.000000,6.000000",
	}, u.Query()["markers"])
	assert.Equal(t, "test-key", u.Query().Get("key"))
}
