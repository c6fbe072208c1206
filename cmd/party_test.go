package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/halfway/internal/config"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/location"
	"github.com/sells-group/halfway/internal/lookup"
)

// withConfig installs a minimal configuration for the duration of a test.
func withConfig(t *testing.T) *config.Config {
	t.Helper()
	prev := cfg
	cfg = &config.Config{}
	cfg.Google.MaxResults = 20
	cfg.Search.MinRadiusM = 3000
	cfg.Search.MaxRadiusM = 50000
	cfg.Search.DefaultSort = "distance"
	cfg.Cache.Driver = "memory"
	cfg.Cache.TTLSecs = 60
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = filepath.Join(t.TempDir(), "halfway.db")
	cfg.Store.TTLHours = 1
	cfg.Location.Name = "My Spot"
	cfg.Location.TimeoutSecs = 1
	cfg.Server.Port = 8080
	t.Cleanup(func() { cfg = prev })
	return cfg
}

func TestResolveParty_Coordinate(t *testing.T) {
	withConfig(t)
	env := &appEnv{}

	loc, err := resolveParty(context.Background(), env, " 37.7749,-122.4194 ")
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194}, loc.Coordinate)
	assert.False(t, loc.IsCurrentLocation)
}

func TestResolveParty_OutOfRangeIsNotGeocoded(t *testing.T) {
	withConfig(t)

	_, err := resolveParty(context.Background(), &appEnv{}, "95,10")
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)

	_, err = resolveParty(context.Background(), &appEnv{}, "  ")
	assert.Error(t, err)
}

func TestResolveParty_CurrentWithoutAPIKeyFallsBack(t *testing.T) {
	c := withConfig(t)
	lat, lng := 51.5074, -0.1278
	c.Location.Latitude, c.Location.Longitude = &lat, &lng

	env := &appEnv{
		Location: newLocationProvider(c.Location),
		Lookup:   lookup.New(newGeocoder(c.Google), newGoogleClient(c.Google), nil, 0),
	}

	loc, err := resolveParty(context.Background(), env, "current")
	require.NoError(t, err)
	assert.Equal(t, "My Spot", loc.Name)
	assert.Equal(t, location.AddressNotFound, loc.Address)
	assert.True(t, loc.IsCurrentLocation)
	assert.InDelta(t, lat, loc.Latitude, 1e-9)
}

func TestResolveParty_CurrentUnconfigured(t *testing.T) {
	c := withConfig(t)
	env := &appEnv{Location: newLocationProvider(c.Location)}

	_, err := resolveParty(context.Background(), env, "CURRENT")
	assert.ErrorIs(t, err, location.ErrUnavailable)
}

func TestLooksLikeCoordinate(t *testing.T) {
	assert.True(t, looksLikeCoordinate("91,-200"))
	assert.True(t, looksLikeCoordinate("+1.5, 2"))
	assert.False(t, looksLikeCoordinate("Main St, Springfield"))
	assert.False(t, looksLikeCoordinate("12"))
}
