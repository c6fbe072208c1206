package session

import (
	"sync"
	"time"

	"github.com/sells-group/halfway/internal/ranking"
)

// Registry tracks live sessions and drops those idle longer than its TTL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	defaults ranking.CategorySet
	sort     ranking.SortOption
	now      func() time.Time
}

// NewRegistry creates a registry. A non-positive ttl keeps sessions forever.
func NewRegistry(ttl time.Duration, defaults ranking.CategorySet, sort ranking.SortOption) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		defaults: defaults,
		sort:     sort,
		now:      time.Now,
	}
}

// Create starts a new session, pruning idle ones first.
func (r *Registry) Create() *Session {
	s := New(r.defaults, r.sort)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	r.sessions[s.ID()] = s
	return s
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || r.expired(s) {
		return nil, false
	}
	return s, true
}

// Delete drops a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune removes idle sessions and returns how many were dropped.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pruneLocked()
}

func (r *Registry) pruneLocked() int {
	n := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) expired(s *Session) bool {
	return r.ttl > 0 && r.now().Sub(s.UpdatedAt()) > r.ttl
}
