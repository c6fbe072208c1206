package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/lookup"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/search"
	"github.com/sells-group/halfway/internal/session"
	"github.com/sells-group/halfway/pkg/google"
)

// bodyAB is an open request object holding San Francisco and Oakland.
const bodyAB = `{"a":{"latitude":37.7749,"longitude":-122.4194,"name":"A"},"b":{"latitude":37.8044,"longitude":-122.2712,"name":"B"}`

type fakeLookup struct {
	resolveAddress func(text string) (geo.NamedLocation, error)
	directions     func(origin, dest geo.Coordinate, mode string) (*google.Leg, error)
}

func (f *fakeLookup) ResolveAddress(_ context.Context, text string) (geo.NamedLocation, error) {
	return f.resolveAddress(text)
}

func (f *fakeLookup) ResolveCoordinate(_ context.Context, c geo.Coordinate) (geo.NamedLocation, error) {
	return geo.NamedLocation{Coordinate: c, Name: "1 Market St", IsCurrentLocation: true}, nil
}

func (f *fakeLookup) PlaceDetails(_ context.Context, id string) (*model.Place, error) {
	if id == "missing" {
		return nil, lookup.ErrNoResult
	}
	return &model.Place{PlaceID: id, Name: "Tartine", PhotoReference: "places/" + id + "/photos/p"}, nil
}

func (f *fakeLookup) Suggestions(_ context.Context, input string) ([]lookup.Suggestion, error) {
	if strings.TrimSpace(input) == "" {
		return []lookup.Suggestion{}, nil
	}
	return []lookup.Suggestion{{Description: "Tartine Bakery", PlaceID: "p1"}}, nil
}

func (f *fakeLookup) Directions(_ context.Context, origin, dest geo.Coordinate, mode string) (*google.Leg, error) {
	return f.directions(origin, dest, mode)
}

func (f *fakeLookup) PhotoURL(ref string, maxWidth int) string {
	if ref == "" {
		return ""
	}
	return "https://photos.example/" + ref + "?w=" + strconv.Itoa(maxWidth)
}

func places() []model.Place {
	return []model.Place{
		{PlaceID: "far-cafe", Name: "Far Cafe", Types: []string{"cafe"}, Location: geo.Coordinate{Latitude: 37.80, Longitude: -122.34}, Rating: model.Float64(4.9)},
		{PlaceID: "near-bar", Name: "Near Bar", Types: []string{"bar"}, Location: geo.Coordinate{Latitude: 37.7897, Longitude: -122.3453}, Rating: model.Float64(3.9)},
	}
}

func newTestRouter(t *testing.T, searcher search.Searcher) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := search.NewMetrics()
	require.NoError(t, metrics.Register(reg))

	orch := search.NewOrchestrator(searcher, search.WithMetrics(metrics))
	deps := Deps{
		Searcher: orch,
		Lookup: &fakeLookup{
			resolveAddress: func(text string) (geo.NamedLocation, error) {
				if text == "nowhere" {
					return geo.NamedLocation{}, lookup.ErrNoResult
				}
				return geo.NamedLocation{Coordinate: geo.Coordinate{Latitude: 37.79, Longitude: -122.39}, Name: text}, nil
			},
			directions: func(_, _ geo.Coordinate, mode string) (*google.Leg, error) {
				if mode == google.ModeTransit {
					return nil, lookup.ErrNoResult
				}
				return &google.Leg{Distance: google.TextValue{Text: "14 km", Value: 14000}}, nil
			},
		},
		Sessions: session.NewRegistry(time.Hour, ranking.DefaultCategories(), ranking.SortDistance),
		Gatherer: reg,
	}
	return NewRouter(deps, Options{}), reg
}

func staticSearcher(found []model.Place) search.Searcher {
	return search.SearcherFunc(func(_ context.Context, _ geo.Coordinate, _ float64, category string) ([]model.Place, error) {
		var out []model.Place
		for _, p := range found {
			if p.HasAnyType(func(t string) bool { return t == category }) {
				out = append(out, p)
			}
		}
		return out, nil
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, "ok", decode[map[string]string](t, rr)["status"])
}

func TestRequestIDPassthrough(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestMidpoint(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodPost, "/v1/midpoint", bodyAB+"}")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[map[string]any](t, rr)
	mid := got["midpoint"].(map[string]any)
	assert.Equal(t, "Midpoint", mid["name"])
	assert.InDelta(t, got["distance_from_a_km"], got["distance_from_b_km"], 1e-6)
	assert.Equal(t, "Perfectly Fair", got["fairness"].(map[string]any)["label"])
}

func TestMidpoint_Weighted(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodPost, "/v1/midpoint", bodyAB+`,"weight_a":3}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[map[string]any](t, rr)
	assert.Equal(t, "Weighted Midpoint", got["midpoint"].(map[string]any)["name"])
	assert.Less(t, got["distance_from_a_km"].(float64), got["distance_from_b_km"].(float64))
}

func TestMidpoint_Validation(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"a":`, http.StatusBadRequest},
		{"missing b", `{"a":{"latitude":1,"longitude":2}}`, http.StatusBadRequest},
		{"latitude out of range", `{"a":{"latitude":91,"longitude":2},"b":{"latitude":1,"longitude":2}}`, http.StatusBadRequest},
		{"negative weight", bodyAB + `,"weight_b":-1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/v1/midpoint", tt.body)
			assert.Equal(t, tt.code, rr.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestSearch_RanksResults(t *testing.T) {
	h, reg := newTestRouter(t, staticSearcher(places()))

	rr := do(t, h, http.MethodPost, "/v1/search", bodyAB+`,"sort":"rating"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[SearchResponse](t, rr)
	require.Len(t, got.Places, 2)
	assert.Equal(t, "far-cafe", got.Places[0].PlaceID)
	assert.InDelta(t, 6715, got.RadiusMeters, 1)
	assert.Empty(t, got.Message)
	assert.Greater(t, got.Places[0].DistanceFromMidpoint, 0.0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestSearch_FiltersByCategory(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(places()))

	rr := do(t, h, http.MethodPost, "/v1/search", bodyAB+`,"categories":["bar"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode[SearchResponse](t, rr)
	require.Len(t, got.Places, 1)
	assert.Equal(t, "near-bar", got.Places[0].PlaceID)
}

func TestSearch_OversizedBody(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	body := bodyAB + `,"categories":["` + strings.Repeat("x", MaxBodyBytes) + `"]}`
	rr := do(t, h, http.MethodPost, "/v1/search", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, CodeBadRequest, decode[ErrorResponse](t, rr).Error.Code)
}

func TestSearch_EmptyOutcomeIs200(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodPost, "/v1/search", bodyAB+"}")
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode[SearchResponse](t, rr)
	assert.Empty(t, got.Places)
	assert.NotNil(t, got.Places)
	assert.Equal(t, "No places found within 50 km.", got.Message)
	assert.Equal(t, []string{search.TierRadius}, got.Escalations)
}

func TestSearch_GeoJSON(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(places()))

	rr := do(t, h, http.MethodPost, "/v1/search?format=geojson", bodyAB+"}")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/geo+json", rr.Header().Get("Content-Type"))

	got := decode[map[string]any](t, rr)
	assert.Equal(t, "FeatureCollection", got["type"])
	assert.Len(t, got["features"], 5)
}

func TestSearch_CustomMidpointAndBadSort(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(places()))

	rr := do(t, h, http.MethodPost, "/v1/search", bodyAB+`,"midpoint":{"latitude":37.79,"longitude":-122.34}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[SearchResponse](t, rr)
	assert.Equal(t, "Midpoint", got.Summary.Midpoint.Name)
	assert.InDelta(t, 37.79, got.Summary.Midpoint.Latitude, 1e-9)

	rr = do(t, h, http.MethodPost, "/v1/search", bodyAB+`,"sort":"cheapest"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))
	do(t, h, http.MethodPost, "/v1/search", bodyAB+"}")

	rr := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "halfway_searches_empty_total 1")
}

func TestGeocode(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodGet, "/v1/geocode?address=Ferry+Building", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ferry Building", decode[geo.NamedLocation](t, rr).Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/geocode?address=nowhere", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/geocode", "").Code)
}

func TestReverse(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodGet, "/v1/reverse?lat=37.79&lng=-122.39", "")
	require.Equal(t, http.StatusOK, rr.Code)
	loc := decode[geo.NamedLocation](t, rr)
	assert.True(t, loc.IsCurrentLocation)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/reverse?lat=100&lng=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/reverse?lat=abc", "").Code)
}

func TestPlaceDetails(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodGet, "/v1/places/p1?photo_width=800", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[PlaceResponse](t, rr)
	assert.Equal(t, "Tartine", got.Place.Name)
	assert.Equal(t, "https://photos.example/places/p1/photos/p?w=800", got.PhotoURL)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/places/missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/places/p1?photo_width=-2", "").Code)
}

func TestSuggestions(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodGet, "/v1/suggestions?input=tart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[map[string][]lookup.Suggestion](t, rr)
	assert.Equal(t, "p1", got["suggestions"][0].PlaceID)

	rr = do(t, h, http.MethodGet, "/v1/suggestions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[map[string][]lookup.Suggestion](t, rr)["suggestions"])
}

func TestDirections(t *testing.T) {
	h, _ := newTestRouter(t, staticSearcher(nil))

	rr := do(t, h, http.MethodGet, "/v1/directions?origin=37.77,-122.41&destination=37.80,-122.27&mode=walking", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "14 km", decode[google.Leg](t, rr).Distance.Text)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/directions?origin=1,1&destination=2,2&mode=transit", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/directions?origin=1,1&destination=2,2&mode=rocket", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/directions?origin=1,1", "").Code)
}

func TestWriteFailure_UpstreamError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/geocode", nil)

	writeFailure(rr, req, google.StatusError(google.StatusRequestDenied, "", "Geocode"))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "Request was denied. Check your API key settings.", decode[ErrorResponse](t, rr).Error.Message)

	rr = httptest.NewRecorder()
	writeFailure(rr, req, google.ErrMissingAPIKey)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = httptest.NewRecorder()
	writeFailure(rr, req, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
