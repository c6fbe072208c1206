package midpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/halfway/internal/fairness"
	"github.com/sells-group/halfway/internal/geo"
)

var (
	losAngeles = geo.NamedLocation{Coordinate: geo.Coordinate{Latitude: 34.0522, Longitude: -118.2437}, Name: "Los Angeles"}
	newYork    = geo.NamedLocation{Coordinate: geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060}, Name: "New York"}
)

func TestCalculate(t *testing.T) {
	s := Calculate(losAngeles, newYork)

	assert.Equal(t, NameGeographic, s.Midpoint.Name)
	assert.InDelta(t, 39.5, s.Midpoint.Latitude, 1.0)
	assert.InDelta(t, -97.2, s.Midpoint.Longitude, 1.0)
	assert.InDelta(t, s.DistanceFromA, s.DistanceFromB, 1e-6)
	assert.Equal(t, fairness.PerfectlyFair, s.Fairness.Label)
	assert.Equal(t, "Los Angeles", s.LocationA.Name)
	assert.InDelta(t, 3935, s.SpanKm(), 150)
}

func TestCalculateWeighted(t *testing.T) {
	s := CalculateWeighted(losAngeles, newYork, 3, 1)

	assert.Equal(t, NameWeighted, s.Midpoint.Name)
	assert.Less(t, s.DistanceFromA, s.DistanceFromB)
	assert.Equal(t, fairness.Unbalanced, s.Fairness.Label)
}

func TestCalculateWeighted_ZeroWeights(t *testing.T) {
	w := CalculateWeighted(losAngeles, newYork, 0, 0)
	g := Calculate(losAngeles, newYork)

	assert.Equal(t, NameWeighted, w.Midpoint.Name)
	assert.InDelta(t, g.Midpoint.Latitude, w.Midpoint.Latitude, 1e-9)
	assert.InDelta(t, g.Midpoint.Longitude, w.Midpoint.Longitude, 1e-9)
}

func TestReassess(t *testing.T) {
	a := geo.NamedLocation{Coordinate: geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}}
	b := geo.NamedLocation{Coordinate: geo.Coordinate{Latitude: 37.8044, Longitude: -122.2712}}
	moved := geo.NamedLocation{Coordinate: a.Coordinate, Name: "Dropped Pin"}

	s := Reassess(a, b, moved)

	assert.Equal(t, "Dropped Pin", s.Midpoint.Name)
	assert.Zero(t, s.DistanceFromA)
	assert.InDelta(t, geo.DistanceKm(a.Coordinate, b.Coordinate), s.DistanceFromB, 1e-9)
	assert.InDelta(t, s.DistanceFromB, s.Fairness.Delta, 1e-9)
}
