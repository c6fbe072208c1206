// Package lookup resolves addresses, coordinates and place details through
// Google, backed by the durable store.
package lookup

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/search"
	"github.com/sells-group/halfway/internal/store"
	"github.com/sells-group/halfway/pkg/geocode"
	"github.com/sells-group/halfway/pkg/google"
)

// ErrNoResult is returned when Google reports ZERO_RESULTS.
var ErrNoResult = eris.New("lookup: no result")

// Names used for reverse-geocoded locations.
const (
	CurrentLocationName    = "Current Location"
	UnknownLocationAddress = "Unknown location"
)

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	Description string `json:"description" yaml:"description"`
	PlaceID     string `json:"place_id" yaml:"place_id"`
}

// Service is the lookup facade used by the CLI and the HTTP API.
type Service struct {
	geocoder geocode.Client
	places   google.Client
	store    store.Store
	ttl      time.Duration
}

// New creates a Service. st may be nil to disable durable caching.
func New(geocoder geocode.Client, places google.Client, st store.Store, ttl time.Duration) *Service {
	return &Service{geocoder: geocoder, places: places, store: st, ttl: ttl}
}

// QueryKey normalizes address text and hashes it for cache lookup.
func QueryKey(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// ResolveAddress geocodes free-form text. The result is named after the
// input text.
func (s *Service) ResolveAddress(ctx context.Context, text string) (geo.NamedLocation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return geo.NamedLocation{}, eris.New("lookup: address is required")
	}
	key := QueryKey(text)

	if s.store != nil {
		cached, err := s.store.GetCachedGeocode(ctx, key)
		if err != nil {
			zap.L().Warn("lookup: geocode cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	res, err := s.geocoder.Geocode(ctx, text)
	if err != nil {
		return geo.NamedLocation{}, eris.Wrap(err, "lookup: geocode")
	}
	if !res.Matched {
		return geo.NamedLocation{}, eris.Wrapf(ErrNoResult, "lookup: geocode %q", text)
	}

	loc := geo.NamedLocation{
		Coordinate: geo.Coordinate{Latitude: res.Latitude, Longitude: res.Longitude},
		Name:       text,
		Address:    res.FormattedAddress,
	}
	if s.store != nil {
		if err := s.store.SetCachedGeocode(ctx, key, loc, s.ttl); err != nil {
			zap.L().Warn("lookup: geocode cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}

// ResolveCoordinate reverse-geocodes c. The name is the first component of
// the formatted address. An unknown address still returns a location.
func (s *Service) ResolveCoordinate(ctx context.Context, c geo.Coordinate) (geo.NamedLocation, error) {
	if err := c.Validate(); err != nil {
		return geo.NamedLocation{}, err
	}

	res, err := s.geocoder.Reverse(ctx, c.Latitude, c.Longitude)
	if err != nil {
		return geo.NamedLocation{}, eris.Wrap(err, "lookup: reverse geocode")
	}

	loc := geo.NamedLocation{Coordinate: c, IsCurrentLocation: true}
	if !res.Matched || res.FormattedAddress == "" {
		loc.Name = CurrentLocationName
		loc.Address = UnknownLocationAddress
		return loc, nil
	}
	loc.Address = res.FormattedAddress
	loc.Name = strings.TrimSpace(strings.SplitN(res.FormattedAddress, ",", 2)[0])
	return loc, nil
}

// PlaceDetails fetches a place by ID.
func (s *Service) PlaceDetails(ctx context.Context, placeID string) (*model.Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, eris.New("lookup: place id is required")
	}

	if s.store != nil {
		cached, err := s.store.GetCachedPlace(ctx, placeID)
		if err != nil {
			zap.L().Warn("lookup: place cache read failed", zap.String("place_id", placeID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	raw, err := s.places.PlaceDetails(ctx, placeID)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: place details %s", placeID)
	}
	p := search.FromGoogle(*raw)
	if p.PlaceID == "" {
		p.PlaceID = placeID
	}

	if s.store != nil {
		if err := s.store.SetCachedPlace(ctx, p, s.ttl); err != nil {
			zap.L().Warn("lookup: place cache write failed", zap.String("place_id", placeID), zap.Error(err))
		}
	}
	return &p, nil
}

// Suggestions returns place predictions for partial input. Blank input
// returns an empty list without calling Google.
func (s *Service) Suggestions(ctx context.Context, input string) ([]Suggestion, error) {
	if strings.TrimSpace(input) == "" {
		return []Suggestion{}, nil
	}

	resp, err := s.places.Autocomplete(ctx, input)
	if err != nil {
		return nil, eris.Wrap(err, "lookup: suggestions")
	}

	out := make([]Suggestion, 0, len(resp.Suggestions))
	for _, sg := range resp.Suggestions {
		if sg.PlacePrediction == nil {
			continue
		}
		out = append(out, Suggestion{
			Description: sg.PlacePrediction.Text.Text,
			PlaceID:     sg.PlacePrediction.PlaceID,
		})
	}
	return out, nil
}

// PhotoURL returns the media URL for a photo reference, or "" when there is
// none.
func (s *Service) PhotoURL(ref string, maxWidth int) string {
	return s.places.PhotoURL(ref, maxWidth)
}

// Directions returns the first leg of the first route from origin to dest.
func (s *Service) Directions(ctx context.Context, origin, dest geo.Coordinate, mode string) (*google.Leg, error) {
	resp, err := s.places.Directions(ctx, google.DirectionsRequest{
		Origin:      latLng(origin),
		Destination: latLng(dest),
		Mode:        mode,
	})
	if err != nil {
		if errors.Is(err, google.ErrZeroResults) {
			return nil, eris.Wrap(ErrNoResult, "lookup: no routes found")
		}
		return nil, eris.Wrap(err, "lookup: directions")
	}
	leg := resp.Routes[0].Legs[0]
	return &leg, nil
}

// StaticMapURL renders A, the midpoint and B on a static map.
func (s *Service) StaticMapURL(a, b, mid geo.Coordinate, width, height int) string {
	return s.places.StaticMapURL(google.StaticMapRequest{
		Origin:      latLng(a),
		Destination: latLng(b),
		Midpoint:    latLng(mid),
		Width:       width,
		Height:      height,
	})
}

func latLng(c geo.Coordinate) google.LatLng {
	return google.LatLng{Latitude: c.Latitude, Longitude: c.Longitude}
}
