// Package google wraps the Google Places (v1), Directions and Static Maps APIs.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultPlacesURL = "https://places.googleapis.com/v1"
	defaultMapsURL   = "https://maps.googleapis.com/maps/api"
)

// Client performs Google Maps Platform operations.
type Client interface {
	SearchNearby(ctx context.Context, req NearbyRequest) (*NearbyResponse, error)
	PlaceDetails(ctx context.Context, placeID string) (*Place, error)
	Autocomplete(ctx context.Context, input string) (*AutocompleteResponse, error)
	Directions(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	PhotoURL(photoName string, maxWidth int) string
	StaticMapURL(req StaticMapRequest) string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the Places API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.placesURL = url
	}
}

// WithMapsBaseURL overrides the legacy Maps web service base URL used by
// Directions and Static Maps.
func WithMapsBaseURL(url string) Option {
	return func(c *httpClient) {
		c.mapsURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables
// limiting.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey    string
	placesURL string
	mapsURL   string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a Google Maps Platform client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:    apiKey,
		placesURL: defaultPlacesURL,
		mapsURL:   defaultMapsURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// postPlaces sends a JSON body to a Places v1 endpoint and decodes the reply.
func (c *httpClient) postPlaces(ctx context.Context, path, fieldMask string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return eris.Wrap(err, "google: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.placesURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "google: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doPlaces(req, fieldMask, out)
}

// getPlaces fetches a Places v1 resource.
func (c *httpClient) getPlaces(ctx context.Context, path, fieldMask string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.placesURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "google: create request")
	}
	return c.doPlaces(req, fieldMask, out)
}

func (c *httpClient) doPlaces(req *http.Request, fieldMask string, out any) error {
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	if fieldMask != "" {
		req.Header.Set("X-Goog-FieldMask", fieldMask)
	}

	respBody, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return placesError(status, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "google: unmarshal response")
	}
	return nil
}

func (c *httpClient) do(req *http.Request) ([]byte, int, error) {
	if c.apiKey == "" {
		return nil, 0, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, 0, eris.Wrap(err, "google: rate limit")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, eris.Wrap(err, "google: read response")
	}
	return respBody, resp.StatusCode, nil
}
