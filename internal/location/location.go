// Package location supplies the "current location" fix for a party.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/geo"
)

// Provider errors.
var (
	ErrPermissionDenied = eris.New("location: permission denied")
	ErrUnavailable      = eris.New("location: position unavailable")
	ErrTimeout          = eris.New("location: timed out")
)

// Fallback labels for a fix that could not be reverse-geocoded.
const (
	CurrentLocationName = "Current Location"
	AddressNotFound     = "Address not found"
)

// DefaultTimeout bounds a single fix.
const DefaultTimeout = 15 * time.Second

// Provider delivers a single best-effort position fix.
type Provider interface {
	CurrentPosition(ctx context.Context) (geo.Coordinate, error)
}

// Reverser names a coordinate.
type Reverser interface {
	ResolveCoordinate(ctx context.Context, c geo.Coordinate) (geo.NamedLocation, error)
}

// StaticProvider serves a configured fix.
type StaticProvider struct {
	fix *geo.Coordinate
}

// NewStaticProvider returns a provider that always reports c.
func NewStaticProvider(c geo.Coordinate) *StaticProvider {
	return &StaticProvider{fix: &c}
}

// CurrentPosition returns ErrUnavailable when no fix is configured.
func (p *StaticProvider) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	if p == nil || p.fix == nil {
		return geo.Coordinate{}, ErrUnavailable
	}
	if err := p.fix.Validate(); err != nil {
		return geo.Coordinate{}, eris.Wrap(ErrUnavailable, err.Error())
	}
	return *p.fix, nil
}

// Current takes one fix bounded by timeout and names it. A reverse-geocoding
// failure still yields the coordinate with fallback labels.
func Current(ctx context.Context, provider Provider, reverser Reverser, timeout time.Duration) (geo.NamedLocation, error) {
	if provider == nil {
		return geo.NamedLocation{}, ErrUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	fixCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c, err := provider.CurrentPosition(fixCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return geo.NamedLocation{}, ErrTimeout
		}
		return geo.NamedLocation{}, err
	}

	loc := geo.NamedLocation{
		Coordinate:        c,
		Name:              CurrentLocationName,
		Address:           AddressNotFound,
		IsCurrentLocation: true,
	}
	if reverser == nil {
		return loc, nil
	}

	named, err := reverser.ResolveCoordinate(ctx, c)
	if err != nil {
		zap.L().Warn("location: reverse geocode failed",
			zap.Float64("latitude", c.Latitude),
			zap.Float64("longitude", c.Longitude),
			zap.Error(err),
		)
		return loc, nil
	}
	named.Coordinate = c
	named.IsCurrentLocation = true
	return named, nil
}
