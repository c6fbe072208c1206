package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/halfway/internal/ranking"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(time.Hour, nil, ranking.SortDistance)

	s := r.Create()
	got, ok := r.Get(s.ID())
	assert.True(t, ok)
	assert.Same(t, s, got)

	r.Delete(s.ID())
	_, ok = r.Get(s.ID())
	assert.False(t, ok)
}

func TestRegistry_ExpiresIdleSessions(t *testing.T) {
	r := NewRegistry(time.Minute, ranking.NewCategorySet("cafe"), ranking.SortPriceAsc)
	now := time.Now()
	r.now = func() time.Time { return now }

	s := r.Create()
	assert.Equal(t, []string{"cafe"}, s.Categories().Slice())
	assert.Equal(t, ranking.SortPriceAsc, s.Sort())

	now = now.Add(2 * time.Minute)
	_, ok := r.Get(s.ID())
	assert.False(t, ok)

	assert.Equal(t, 1, r.Prune())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_NoTTL(t *testing.T) {
	r := NewRegistry(0, nil, "")
	now := time.Now()
	r.now = func() time.Time { return now.Add(1000 * time.Hour) }

	s := r.Create()
	_, ok := r.Get(s.ID())
	assert.True(t, ok)
}
