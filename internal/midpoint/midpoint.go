// Package midpoint computes the meeting point between two locations and
// summarizes how fair it is to each party.
package midpoint

import (
	"github.com/sells-group/halfway/internal/fairness"
	"github.com/sells-group/halfway/internal/geo"
)

// Display names given to computed midpoints.
const (
	NameGeographic = "Midpoint"
	NameWeighted   = "Weighted Midpoint"
)

// Summary is a midpoint together with the distance each party travels to it.
type Summary struct {
	Midpoint      geo.NamedLocation `json:"midpoint" yaml:"midpoint"`
	LocationA     geo.NamedLocation `json:"location_a" yaml:"location_a"`
	LocationB     geo.NamedLocation `json:"location_b" yaml:"location_b"`
	DistanceFromA float64           `json:"distance_from_a_km" yaml:"distance_from_a_km"`
	DistanceFromB float64           `json:"distance_from_b_km" yaml:"distance_from_b_km"`
	Fairness      fairness.Result   `json:"fairness" yaml:"fairness"`
}

// SpanKm returns the direct distance between the two source locations.
func (s Summary) SpanKm() float64 {
	return geo.DistanceKm(s.LocationA.Coordinate, s.LocationB.Coordinate)
}

// Calculate returns the geographic midpoint of a and b.
func Calculate(a, b geo.NamedLocation) Summary {
	mid := geo.NamedLocation{
		Coordinate: geo.GeographicMidpoint(a.Coordinate, b.Coordinate),
		Name:       NameGeographic,
	}
	return Reassess(a, b, mid)
}

// CalculateWeighted returns the midpoint of a and b pulled toward the party
// with the larger weight. Zero total weight falls back to the geographic
// midpoint.
func CalculateWeighted(a, b geo.NamedLocation, weightA, weightB float64) Summary {
	mid := geo.NamedLocation{
		Coordinate: geo.WeightedMidpoint(a.Coordinate, b.Coordinate, weightA, weightB),
		Name:       NameWeighted,
	}
	return Reassess(a, b, mid)
}

// Reassess measures a and b against a midpoint chosen elsewhere, e.g. one
// the user dragged on the map.
func Reassess(a, b, mid geo.NamedLocation) Summary {
	distA := geo.DistanceKm(a.Coordinate, mid.Coordinate)
	distB := geo.DistanceKm(b.Coordinate, mid.Coordinate)
	return Summary{
		Midpoint:      mid,
		LocationA:     a,
		LocationB:     b,
		DistanceFromA: distA,
		DistanceFromB: distB,
		Fairness:      fairness.Classify(distA, distB),
	}
}
