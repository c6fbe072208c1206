// Package geo provides coordinate math for meeting-point computation:
// great-circle distance, geographic and weighted midpoints, and GeoJSON export.
package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// EarthRadiusKM is the mean Earth radius used by DistanceKm.
const EarthRadiusKM = 6371.0

// ErrInvalidCoordinate is returned by Validate for out-of-range input.
var ErrInvalidCoordinate = eris.New("geo: invalid coordinate")

// Coordinate is an immutable latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NamedLocation is a Coordinate with optional display metadata.
type NamedLocation struct {
	Coordinate        `yaml:",inline"`
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	Address           string `json:"address,omitempty" yaml:"address,omitempty"`
	IsCurrentLocation bool   `json:"is_current_location,omitempty" yaml:"is_current_location,omitempty"`
}

// Validate reports whether the coordinate lies within [-90,90] x [-180,180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return eris.Wrap(ErrInvalidCoordinate, "not a number")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return eris.Wrapf(ErrInvalidCoordinate, "latitude %f out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return eris.Wrapf(ErrInvalidCoordinate, "longitude %f out of range", c.Longitude)
	}
	return nil
}

// ParseCoordinate parses "lat,lng" and validates the result.
func ParseCoordinate(s string) (Coordinate, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, eris.Wrapf(ErrInvalidCoordinate, "expected lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinate{}, eris.Wrapf(ErrInvalidCoordinate, "latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return Coordinate{}, eris.Wrapf(ErrInvalidCoordinate, "longitude %q", lngStr)
	}
	c := Coordinate{Latitude: lat, Longitude: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// ToDegrees converts radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Min(math.Max(value, lo), hi)
}

// DistanceKm returns the Haversine great-circle distance between a and b in kilometers.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := ToRadians(a.Latitude)
	lon1 := ToRadians(a.Longitude)
	lat2 := ToRadians(b.Latitude)
	lon2 := ToRadians(b.Longitude)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for antipodal pairs.
	h = Clamp(h, 0, 1)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// vector is a point on the unit sphere.
type vector struct {
	x, y, z float64
}

func toVector(c Coordinate) vector {
	lat := ToRadians(c.Latitude)
	lon := ToRadians(c.Longitude)
	return vector{
		x: math.Cos(lat) * math.Cos(lon),
		y: math.Cos(lat) * math.Sin(lon),
		z: math.Sin(lat),
	}
}

func (v vector) coordinate() Coordinate {
	lon := math.Atan2(v.y, v.x)
	hyp := math.Sqrt(v.x*v.x + v.y*v.y)
	lat := math.Atan2(v.z, hyp)
	return Coordinate{Latitude: ToDegrees(lat), Longitude: ToDegrees(lon)}
}

// GeographicMidpoint averages a and b on the unit sphere and projects the
// result back to latitude/longitude. Unlike a plain lat/lon average this
// handles antimeridian wraparound and polar regions.
func GeographicMidpoint(a, b Coordinate) Coordinate {
	va, vb := toVector(a), toVector(b)
	return vector{
		x: (va.x + vb.x) / 2,
		y: (va.y + vb.y) / 2,
		z: (va.z + vb.z) / 2,
	}.coordinate()
}

// WeightedMidpoint scales each point's unit vector by its normalized weight
// before summing. A higher weight pulls the result toward that point. When
// both weights are zero it falls back to GeographicMidpoint.
func WeightedMidpoint(a, b Coordinate, weightA, weightB float64) Coordinate {
	total := weightA + weightB
	if total == 0 {
		return GeographicMidpoint(a, b)
	}
	wa := weightA / total
	wb := weightB / total

	va, vb := toVector(a), toVector(b)
	return vector{
		x: va.x*wa + vb.x*wb,
		y: va.y*wa + vb.y*wb,
		z: va.z*wa + vb.z*wb,
	}.coordinate()
}
