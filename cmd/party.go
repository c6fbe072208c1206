package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/location"
)

// partyCurrent selects the device-location provider.
const partyCurrent = "current"

// resolveParty turns a --a/--b style value into a location: "current" uses
// the configured fix, "lat,lng" is taken as-is, and anything else is
// geocoded.
func resolveParty(ctx context.Context, env *appEnv, value string) (geo.NamedLocation, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return geo.NamedLocation{}, eris.New("location is required")
	}

	if strings.EqualFold(value, partyCurrent) {
		loc, err := location.Current(ctx, env.Location, env.Lookup, cfg.Location.Timeout())
		if err != nil {
			return geo.NamedLocation{}, err
		}
		if loc.Name == location.CurrentLocationName && cfg.Location.Name != "" {
			loc.Name = cfg.Location.Name
		}
		return loc, nil
	}

	if c, err := geo.ParseCoordinate(value); err == nil {
		return geo.NamedLocation{Coordinate: c, Name: value}, nil
	} else if looksLikeCoordinate(value) {
		return geo.NamedLocation{}, err
	}

	return env.Lookup.ResolveAddress(ctx, value)
}

// looksLikeCoordinate reports whether value is two comma-separated numbers,
// so an out-of-range pair is rejected instead of geocoded.
func looksLikeCoordinate(value string) bool {
	lat, lng, ok := strings.Cut(value, ",")
	return ok && isNumber(lat) && isNumber(lng)
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
