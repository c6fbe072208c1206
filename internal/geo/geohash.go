package geo

import "github.com/mmcloughlin/geohash"

// CachePrecision is the geohash length used for nearby-search cache keys.
// Seven characters resolve to roughly 150 m, well below the minimum search radius.
const CachePrecision = 7

// Geohash encodes c into a base32 geohash of the given length.
// A precision below 1 falls back to CachePrecision.
func Geohash(c Coordinate, precision int) string {
	if precision < 1 {
		precision = CachePrecision
	}
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, uint(precision))
}
