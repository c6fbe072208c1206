package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// Travel modes accepted by the Directions API.
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// Static map defaults.
const (
	DefaultMapWidth  = 600
	DefaultMapHeight = 300
)

// DirectionsRequest asks for a route between two coordinates.
type DirectionsRequest struct {
	Origin      LatLng
	Destination LatLng
	Mode        string
}

// TextValue is a measured quantity with its display text.
type TextValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

// Step is one maneuver of a route leg.
type Step struct {
	HTMLInstructions string    `json:"html_instructions"`
	Distance         TextValue `json:"distance"`
	Duration         TextValue `json:"duration"`
	TravelMode       string    `json:"travel_mode"`
}

// Leg is a route segment between two waypoints.
type Leg struct {
	Distance     TextValue `json:"distance"`
	Duration     TextValue `json:"duration"`
	StartAddress string    `json:"start_address"`
	EndAddress   string    `json:"end_address"`
	Steps        []Step    `json:"steps"`
}

// Route is one alternative route.
type Route struct {
	Summary string `json:"summary"`
	Legs    []Leg  `json:"legs"`
}

// DirectionsResponse is the response from the Directions API.
type DirectionsResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Routes       []Route `json:"routes"`
}

// ValidMode reports whether mode is a supported travel mode.
func ValidMode(mode string) bool {
	switch mode {
	case ModeDriving, ModeWalking, ModeBicycling, ModeTransit:
		return true
	default:
		return false
	}
}

// Directions returns ErrZeroResults when no route exists.
func (c *httpClient) Directions(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error) {
	mode := req.Mode
	if mode == "" {
		mode = ModeDriving
	}
	if !ValidMode(mode) {
		return nil, eris.Errorf("google: unsupported travel mode %q", mode)
	}

	q := url.Values{
		"origin":      {latLngParam(req.Origin)},
		"destination": {latLngParam(req.Destination)},
		"mode":        {mode},
		"key":         {c.apiKey},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.mapsURL+"/directions/json?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}

	body, status, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{HTTPStatus: status, Message: fmt.Sprintf("unexpected status %d", status)}
	}

	var result DirectionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "google: unmarshal response")
	}

	switch result.Status {
	case StatusOK:
		if len(result.Routes) == 0 || len(result.Routes[0].Legs) == 0 {
			return nil, ErrZeroResults
		}
		return &result, nil
	case StatusZeroResults:
		return nil, ErrZeroResults
	default:
		return nil, StatusError(result.Status, result.ErrorMessage, "Directions")
	}
}

// StaticMapRequest places the A, midpoint and B markers on a static map.
type StaticMapRequest struct {
	Origin      LatLng
	Destination LatLng
	Midpoint    LatLng
	Width       int
	Height      int
}

// StaticMapURL returns an empty string when no API key is configured.
func (c *httpClient) StaticMapURL(req StaticMapRequest) string {
	if c.apiKey == "" {
		return ""
	}
	w, h := req.Width, req.Height
	if w <= 0 {
		w = DefaultMapWidth
	}
	if h <= 0 {
		h = DefaultMapHeight
	}

	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", w, h))
	q.Add("markers", "color:red|label:A|"+latLngParam(req.Origin))
	q.Add("markers", "color:green|label:M|"+latLngParam(req.Midpoint))
	q.Add("markers", "color:blue|label:B|"+latLngParam(req.Destination))
	q.Set("key", c.apiKey)
	return c.mapsURL + "/staticmap?" + q.Encode()
}

func latLngParam(ll LatLng) string {
	return fmt.Sprintf("%f,%f", ll.Latitude, ll.Longitude)
}
