package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/midpoint"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/search"
	"github.com/sells-group/halfway/pkg/google"
)

// FormatGeoJSON selects a GeoJSON FeatureCollection reply from /v1/search.
const FormatGeoJSON = "geojson"

type midpointRequest struct {
	A       *geo.NamedLocation `json:"a"`
	B       *geo.NamedLocation `json:"b"`
	WeightA *float64           `json:"weight_a,omitempty"`
	WeightB *float64           `json:"weight_b,omitempty"`
}

// summary validates both parties and computes the (optionally weighted)
// midpoint summary.
func (req midpointRequest) summary() (midpoint.Summary, error) {
	if req.A == nil || req.B == nil {
		return midpoint.Summary{}, eris.New("a and b are required")
	}
	if err := req.A.Validate(); err != nil {
		return midpoint.Summary{}, err
	}
	if err := req.B.Validate(); err != nil {
		return midpoint.Summary{}, err
	}
	if req.WeightA == nil && req.WeightB == nil {
		return midpoint.Calculate(*req.A, *req.B), nil
	}
	wA, wB := 1.0, 1.0
	if req.WeightA != nil {
		wA = *req.WeightA
	}
	if req.WeightB != nil {
		wB = *req.WeightB
	}
	if wA < 0 || wB < 0 {
		return midpoint.Summary{}, eris.New("weights must be >= 0")
	}
	return midpoint.CalculateWeighted(*req.A, *req.B, wA, wB), nil
}

func (s *server) midpoint(w http.ResponseWriter, r *http.Request) {
	var req midpointRequest
	if !readJSON(w, r, &req) {
		return
	}
	sum, err := req.summary()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type searchRequest struct {
	A          *geo.NamedLocation `json:"a"`
	B          *geo.NamedLocation `json:"b"`
	Midpoint   *geo.NamedLocation `json:"midpoint,omitempty"`
	Categories []string           `json:"categories,omitempty"`
	Sort       string             `json:"sort,omitempty"`
}

// SearchResponse is the reply of POST /v1/search. Message is set when
// nothing was found.
type SearchResponse struct {
	Summary      midpoint.Summary `json:"summary"`
	Places       []model.Place    `json:"places"`
	RadiusMeters float64          `json:"radius_m"`
	Escalations  []string         `json:"escalations,omitempty"`
	Message      string           `json:"message,omitempty"`
}

// locate resolves the summary for a search: the supplied midpoint when the
// caller moved it, otherwise the geographic midpoint.
func locate(a, b, mid *geo.NamedLocation) (midpoint.Summary, error) {
	sum, err := midpointRequest{A: a, B: b}.summary()
	if err != nil || mid == nil {
		return sum, err
	}
	if err := mid.Validate(); err != nil {
		return midpoint.Summary{}, err
	}
	m := *mid
	if m.Name == "" {
		m.Name = midpoint.NameGeographic
	}
	return midpoint.Reassess(*a, *b, m), nil
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !readJSON(w, r, &req) {
		return
	}
	sum, err := locate(req.A, req.B, req.Midpoint)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	sortOpt := s.deps.DefaultSort
	if req.Sort != "" {
		if sortOpt, err = ranking.ParseSortOption(req.Sort); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	selected := ranking.NewCategorySet(req.Categories...)

	res, err := s.deps.Searcher.Search(r.Context(), search.Request{
		Midpoint: sum.Midpoint.Coordinate,
		A:        sum.LocationA.Coordinate,
		B:        sum.LocationB.Coordinate,
		Selected: selected,
	})
	resp := SearchResponse{Summary: sum, Places: []model.Place{}}
	var noPlaces *search.NoPlacesError
	switch {
	case errors.As(err, &noPlaces):
		resp.Message = noPlaces.Error()
		resp.RadiusMeters = noPlaces.RadiusMeters
	case err != nil:
		writeFailure(w, r, err)
		return
	}
	if res != nil {
		resp.Places = ranking.ApplyFilterAndSort(res.Places, selected, sortOpt)
		resp.RadiusMeters = res.RadiusMeters
		resp.Escalations = res.Escalations
	}

	if strings.EqualFold(r.URL.Query().Get("format"), FormatGeoJSON) {
		fc := geo.FeatureCollection(sum.Midpoint, sum.LocationA, sum.LocationB, model.Features(resp.Places))
		w.Header().Set("Content-Type", "application/geo+json")
		body, err := fc.MarshalJSON()
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, CodeValidation, "address is required")
		return
	}
	loc, err := s.deps.Lookup.ResolveAddress(r.Context(), address)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *server) reverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := geo.ParseCoordinate(q.Get("lat") + "," + q.Get("lng"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	loc, err := s.deps.Lookup.ResolveCoordinate(r.Context(), c)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// PlaceResponse is the reply of GET /v1/places/{id}.
type PlaceResponse struct {
	Place    *model.Place `json:"place"`
	PhotoURL string       `json:"photo_url,omitempty"`
}

func (s *server) placeDetails(w http.ResponseWriter, r *http.Request) {
	width := google.DefaultPhotoWidth
	if raw := r.URL.Query().Get("photo_width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidation, "photo_width must be a positive integer")
			return
		}
		width = n
	}

	p, err := s.deps.Lookup.PlaceDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PlaceResponse{Place: p, PhotoURL: s.deps.Lookup.PhotoURL(p.PhotoReference, width)})
}

func (s *server) suggestions(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.Lookup.Suggestions(r.Context(), r.URL.Query().Get("input"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}

func (s *server) directions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin, err := geo.ParseCoordinate(q.Get("origin"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	dest, err := geo.ParseCoordinate(q.Get("destination"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	mode := strings.ToLower(q.Get("mode"))
	if mode != "" && !google.ValidMode(mode) {
		writeError(w, http.StatusBadRequest, CodeValidation, "mode must be driving, walking, bicycling or transit")
		return
	}

	leg, err := s.deps.Lookup.Directions(r.Context(), origin, dest, mode)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leg)
}
