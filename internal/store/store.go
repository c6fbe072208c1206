// Package store persists geocode and place-details lookups so repeated
// resolutions survive restarts.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/halfway/internal/db"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
)

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Store is the durable lookup cache. Getters return (nil, nil) on a miss or
// an expired row.
type Store interface {
	// Geocode cache, keyed by a hash of the normalized query text.
	GetCachedGeocode(ctx context.Context, key string) (*geo.NamedLocation, error)
	SetCachedGeocode(ctx context.Context, key string, loc geo.NamedLocation, ttl time.Duration) error

	// Place details cache, keyed by place ID.
	GetCachedPlace(ctx context.Context, placeID string) (*model.Place, error)
	SetCachedPlace(ctx context.Context, place model.Place, ttl time.Duration) error

	// DeleteExpired removes expired rows from every cache table.
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string
	DatabaseURL string
	Pool        db.PoolConfig
}

// Open connects the configured backend and runs its migration. DriverNone
// returns (nil, nil).
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(opts.Driver) {
	case "", DriverSQLite:
		s, err = NewSQLite(opts.DatabaseURL)
	case DriverPostgres:
		s, err = NewPostgres(ctx, opts.DatabaseURL, opts.Pool)
	case DriverNone:
		return nil, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
