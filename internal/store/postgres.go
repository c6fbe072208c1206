package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/halfway/internal/db"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Open(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return NewPostgresFromPool(pool), nil
}

// NewPostgresFromPool wraps an existing pool.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash TEXT PRIMARY KEY,
	id         UUID NOT NULL,
	location   JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS place_cache (
	place_id   TEXT PRIMARY KEY,
	id         UUID NOT NULL,
	place      JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_place_cache_expires_at ON place_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetCachedGeocode(ctx context.Context, key string) (*geo.NamedLocation, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT location FROM geocode_cache WHERE query_hash = $1 AND expires_at > now()`,
		key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached geocode")
	}

	var loc geo.NamedLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached geocode")
	}
	return &loc, nil
}

func (s *PostgresStore) SetCachedGeocode(ctx context.Context, key string, loc geo.NamedLocation, ttl time.Duration) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal geocode")
	}
	now := time.Now().UTC()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO geocode_cache (query_hash, id, location, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (query_hash) DO UPDATE SET location = $3, cached_at = $4, expires_at = $5`,
		key, uuid.New().String(), raw, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached geocode")
}

func (s *PostgresStore) GetCachedPlace(ctx context.Context, placeID string) (*model.Place, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT place FROM place_cache WHERE place_id = $1 AND expires_at > now()`,
		placeID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached place")
	}

	var p model.Place
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached place")
	}
	return &p, nil
}

func (s *PostgresStore) SetCachedPlace(ctx context.Context, place model.Place, ttl time.Duration) error {
	if place.PlaceID == "" {
		return eris.New("postgres: place id is required")
	}
	raw, err := json.Marshal(place)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal place")
	}
	now := time.Now().UTC()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO place_cache (place_id, id, place, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (place_id) DO UPDATE SET place = $3, cached_at = $4, expires_at = $5`,
		place.PlaceID, uuid.New().String(), raw, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached place")
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	total := 0
	for _, table := range []string{"geocode_cache", "place_cache"} {
		tag, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE expires_at <= now()`)
		if err != nil {
			return total, eris.Wrapf(err, "postgres: delete expired %s", table)
		}
		total += int(tag.RowsAffected())
	}
	return total, nil
}
