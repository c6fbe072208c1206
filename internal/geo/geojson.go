package geo

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Feature roles in an exported collection.
const (
	RoleSourceA  = "a"
	RoleSourceB  = "b"
	RoleMidpoint = "midpoint"
	RolePlace    = "place"
)

// PointFeature is the minimal view of a result needed for export.
type PointFeature struct {
	ID         string
	Coordinate Coordinate
	Properties map[string]any
}

// Point converts c into a go-geom XY point with SRID 4326.
func Point(c Coordinate) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude}).SetSRID(4326)
}

// FeatureCollection builds a GeoJSON collection holding both sources, the
// midpoint and every extra feature in the given order.
func FeatureCollection(mid, a, b NamedLocation, extra []PointFeature) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(extra)+3),
	}

	fc.Features = append(fc.Features,
		locationFeature(RoleSourceA, a),
		locationFeature(RoleSourceB, b),
		locationFeature(RoleMidpoint, mid),
	)

	for _, f := range extra {
		props := make(map[string]any, len(f.Properties)+1)
		for k, v := range f.Properties {
			props[k] = v
		}
		props["role"] = RolePlace
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.ID,
			Geometry:   Point(f.Coordinate),
			Properties: props,
		})
	}

	return fc
}

func locationFeature(role string, loc NamedLocation) *geojson.Feature {
	props := map[string]any{"role": role}
	if loc.Name != "" {
		props["name"] = loc.Name
	}
	if loc.Address != "" {
		props["address"] = loc.Address
	}
	return &geojson.Feature{
		ID:         role,
		Geometry:   Point(loc.Coordinate),
		Properties: props,
	}
}
