// Package geocode provides forward and reverse geocoding via the Google
// Geocoding API.
package geocode

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned when no Google API key is configured.
var ErrMissingAPIKey = eris.New("geocode: google api key not configured")

// Client geocodes addresses and coordinates.
type Client interface {
	// Geocode resolves free-form address text to a coordinate.
	Geocode(ctx context.Context, address string) (*Result, error)

	// Reverse resolves a coordinate to its nearest formatted address.
	Reverse(ctx context.Context, lat, lng float64) (*Result, error)
}

// Result holds the geocoding output. Matched is false when Google reports
// ZERO_RESULTS.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	PlaceID          string
	Source           string // always "google"
	Quality          string // "rooftop", "range", "centroid", "approximate"
	Matched          bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL overrides the geocode endpoint.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.endpoint = u
	}
}

// WithRateLimit sets the requests-per-second rate limit.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

type geocoder struct {
	httpClient *http.Client
	googleKey  string
	endpoint   string
	limiter    *rate.Limiter
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(apiKey string, opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		googleKey:  apiKey,
		endpoint:   googleGeocodeURL,
		limiter:    rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	return g.geocodeGoogle(ctx, "address", address)
}

func (g *geocoder) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	r, err := g.geocodeGoogle(ctx, "latlng", formatLatLng(lat, lng))
	if err != nil {
		return nil, err
	}
	if !r.Matched {
		r.Latitude, r.Longitude = lat, lng
	}
	return r, nil
}
