package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Timestamps are
// stored as unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, eris.New("sqlite: database path is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	location   TEXT NOT NULL,
	cached_at  INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS place_cache (
	place_id   TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	place      TEXT NOT NULL,
	cached_at  INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at);
CREATE INDEX IF NOT EXISTS idx_place_cache_expires_at ON place_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCachedGeocode(ctx context.Context, key string) (*geo.NamedLocation, error) {
	var loc geo.NamedLocation
	ok, err := s.getJSON(ctx,
		`SELECT location FROM geocode_cache WHERE query_hash = ? AND expires_at > ?`,
		key, &loc)
	if err != nil || !ok {
		return nil, eris.Wrap(err, "sqlite: get cached geocode")
	}
	return &loc, nil
}

func (s *SQLiteStore) SetCachedGeocode(ctx context.Context, key string, loc geo.NamedLocation, ttl time.Duration) error {
	return eris.Wrap(s.upsertJSON(ctx,
		`INSERT INTO geocode_cache (query_hash, id, location, cached_at, expires_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (query_hash) DO UPDATE SET location = excluded.location, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		key, loc, ttl), "sqlite: set cached geocode")
}

func (s *SQLiteStore) GetCachedPlace(ctx context.Context, placeID string) (*model.Place, error) {
	var p model.Place
	ok, err := s.getJSON(ctx,
		`SELECT place FROM place_cache WHERE place_id = ? AND expires_at > ?`,
		placeID, &p)
	if err != nil || !ok {
		return nil, eris.Wrap(err, "sqlite: get cached place")
	}
	return &p, nil
}

func (s *SQLiteStore) SetCachedPlace(ctx context.Context, place model.Place, ttl time.Duration) error {
	if place.PlaceID == "" {
		return eris.New("sqlite: place id is required")
	}
	return eris.Wrap(s.upsertJSON(ctx,
		`INSERT INTO place_cache (place_id, id, place, cached_at, expires_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (place_id) DO UPDATE SET place = excluded.place, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		place.PlaceID, place, ttl), "sqlite: set cached place")
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	now := s.now().UnixNano()
	total := 0
	for _, table := range []string{"geocode_cache", "place_cache"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE expires_at <= ?`, now)
		if err != nil {
			return total, eris.Wrapf(err, "sqlite: delete expired %s", table)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, eris.Wrap(err, "sqlite: rows affected")
		}
		total += int(n)
	}
	return total, nil
}

// getJSON scans a single JSON column into dest. ok is false on a miss.
func (s *SQLiteStore) getJSON(ctx context.Context, query, key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, query, key, s.now().UnixNano()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, eris.Wrap(err, "unmarshal")
	}
	return true, nil
}

func (s *SQLiteStore) upsertJSON(ctx context.Context, query, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return eris.Wrap(err, "marshal")
	}
	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx, query,
		key, uuid.New().String(), string(raw), now.UnixNano(), now.Add(ttl).UnixNano(),
	)
	return err
}
