package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/cache"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
)

// CachedSearcher memoizes successful nearby searches for a short TTL.
// Failures are never stored. Cache errors degrade to a pass-through.
type CachedSearcher struct {
	next  Searcher
	store cache.Store
	ttl   time.Duration
}

// NewCachedSearcher decorates next with store. A nil store or non-positive
// ttl returns next unchanged.
func NewCachedSearcher(next Searcher, store cache.Store, ttl time.Duration) Searcher {
	if store == nil || ttl <= 0 {
		return next
	}
	return &CachedSearcher{next: next, store: store, ttl: ttl}
}

// CacheKey buckets center by geohash so nearby midpoints share entries.
func CacheKey(center geo.Coordinate, radiusMeters float64, category string) string {
	return fmt.Sprintf("nearby:%s:%.0f:%s", geo.Geohash(center, geo.CachePrecision), radiusMeters, category)
}

// SearchNearby implements Searcher.
func (c *CachedSearcher) SearchNearby(ctx context.Context, center geo.Coordinate, radiusMeters float64, category string) ([]model.Place, error) {
	key := CacheKey(center, radiusMeters, category)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		zap.L().Warn("search: cache get failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		var places []model.Place
		if err := json.Unmarshal(raw, &places); err == nil {
			zap.L().Debug("search: cache hit", zap.String("key", key), zap.Int("count", len(places)))
			return places, nil
		}
	}

	places, err := c.next.SearchNearby(ctx, center, radiusMeters, category)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(places); err == nil {
		if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
			zap.L().Warn("search: cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return places, nil
}
