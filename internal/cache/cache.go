// Package cache provides short-lived key/value stores for nearby-search
// results, backed by process memory or Redis.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Drivers accepted by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNone   = "none"
)

// Store is a byte-oriented cache with per-entry TTL.
type Store interface {
	// Get returns (value, true, nil) on a hit and (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Options selects and configures a cache backend.
type Options struct {
	Driver   string
	RedisURL string
	// Sweep is the memory backend's expiry sweep interval.
	Sweep time.Duration
}

// New builds the configured backend. DriverNone returns (nil, nil).
func New(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverMemory:
		return NewMemory(opts.Sweep), nil
	case DriverRedis:
		return NewRedis(ctx, opts.RedisURL)
	case DriverNone:
		return nil, nil
	default:
		return nil, eris.Errorf("cache: unknown driver %q", opts.Driver)
	}
}
