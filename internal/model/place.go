// Package model defines the result entities shared across the search engine.
package model

import "github.com/sells-group/halfway/internal/geo"

// Price level bounds.
const (
	MinPriceLevel = 0
	MaxPriceLevel = 4
)

// Place is a venue returned by the places collaborator.
type Place struct {
	PlaceID          string         `json:"place_id" yaml:"place_id"`
	Name             string         `json:"name" yaml:"name"`
	Location         geo.Coordinate `json:"location" yaml:"location"`
	Address          string         `json:"address,omitempty" yaml:"address,omitempty"`
	Vicinity         string         `json:"vicinity,omitempty" yaml:"vicinity,omitempty"`
	Rating           *float64       `json:"rating,omitempty" yaml:"rating,omitempty"`
	UserRatingsTotal int            `json:"user_ratings_total" yaml:"user_ratings_total"`
	PriceLevel       *int           `json:"price_level,omitempty" yaml:"price_level,omitempty"`
	Types            []string       `json:"types" yaml:"types"`
	PhotoReference   string         `json:"photo_reference,omitempty" yaml:"photo_reference,omitempty"`
	OpenNow          *bool          `json:"open_now,omitempty" yaml:"open_now,omitempty"`
	WeekdayText      []string       `json:"weekday_text,omitempty" yaml:"weekday_text,omitempty"`
	Icon             string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	Website          string         `json:"website,omitempty" yaml:"website,omitempty"`
	Phone            string         `json:"phone,omitempty" yaml:"phone,omitempty"`

	// DistanceFromMidpoint is kilometers from the midpoint of the search that
	// produced this value. Recompute with WithDistanceFrom whenever the
	// midpoint changes.
	DistanceFromMidpoint float64 `json:"distance_from_midpoint_km" yaml:"distance_from_midpoint_km"`
}

// HasAnyType reports whether the place carries at least one tag accepted by has.
func (p Place) HasAnyType(has func(string) bool) bool {
	for _, t := range p.Types {
		if has(t) {
			return true
		}
	}
	return false
}

// WithDistanceFrom returns a copy of p with DistanceFromMidpoint measured
// from mid.
func (p Place) WithDistanceFrom(mid geo.Coordinate) Place {
	p.DistanceFromMidpoint = geo.DistanceKm(mid, p.Location)
	return p
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Feature returns the GeoJSON export view of p.
func (p Place) Feature() geo.PointFeature {
	props := map[string]any{
		"name":        p.Name,
		"distance_km": p.DistanceFromMidpoint,
	}
	if p.Rating != nil {
		props["rating"] = *p.Rating
	}
	if p.PriceLevel != nil {
		props["price_level"] = *p.PriceLevel
	}
	if p.Address != "" {
		props["address"] = p.Address
	}
	return geo.PointFeature{ID: p.PlaceID, Coordinate: p.Location, Properties: props}
}

// Features maps places to export features, preserving order.
func Features(places []Place) []geo.PointFeature {
	out := make([]geo.PointFeature, len(places))
	for i, p := range places {
		out[i] = p.Feature()
	}
	return out
}
