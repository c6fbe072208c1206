// Package session holds one user's search criteria and the results of their
// last search.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/search"
)

// Searcher runs an orchestrated search. *search.Orchestrator implements it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID           string             `json:"id"`
	Categories   []string           `json:"categories"`
	Sort         ranking.SortOption `json:"sort"`
	Places       []model.Place      `json:"places"`
	RadiusMeters float64            `json:"radius_m,omitempty"`
	Error        string             `json:"error,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Session is safe for concurrent use.
type Session struct {
	mu         sync.RWMutex
	id         string
	defaults   ranking.CategorySet
	categories ranking.CategorySet
	sort       ranking.SortOption
	places     []model.Place
	filtered   []model.Place
	radius     float64
	errMsg     string
	updatedAt  time.Time
}

// New creates a session with the given default categories and sort. A nil
// or empty defaults set means {cafe, restaurant, bar}.
func New(defaults ranking.CategorySet, sort ranking.SortOption) *Session {
	if defaults.Len() == 0 {
		defaults = ranking.DefaultCategories()
	}
	if sort == "" {
		sort = ranking.SortDistance
	}
	return &Session{
		id:         uuid.New().String(),
		defaults:   defaults.Clone(),
		categories: defaults.Clone(),
		sort:       sort,
		filtered:   []model.Place{},
		updatedAt:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Categories returns a copy of the selected categories.
func (s *Session) Categories() ranking.CategorySet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.Clone()
}

// Sort returns the selected sort option.
func (s *Session) Sort() ranking.SortOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// ToggleCategory adds or removes category and refreshes the filtered view.
func (s *Session) ToggleCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories.Toggle(category)
	s.refreshLocked()
}

// ClearCategories empties the selection, which disables filtering.
func (s *Session) ClearCategories() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = ranking.NewCategorySet()
	s.refreshLocked()
}

// ResetCategories restores the default categories.
func (s *Session) ResetCategories() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = s.defaults.Clone()
	s.refreshLocked()
}

// SetSort changes the ordering of the filtered view.
func (s *Session) SetSort(opt ranking.SortOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = opt
	s.refreshLocked()
}

// Search runs a search with the categories selected at call time and ranks
// the outcome with the criteria selected when it returns. An empty outcome
// is recorded as the session error and is not returned.
func (s *Session) Search(ctx context.Context, searcher Searcher, mid, a, b geo.Coordinate) error {
	s.mu.Lock()
	req := search.Request{Midpoint: mid, A: a, B: b, Selected: s.categories.Clone()}
	s.errMsg = ""
	s.mu.Unlock()

	res, err := searcher.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()

	var noPlaces *search.NoPlacesError
	switch {
	case errors.As(err, &noPlaces):
		s.places = nil
		s.radius = noPlaces.RadiusMeters
		s.errMsg = noPlaces.Error()
	case err != nil:
		s.errMsg = "Failed to load places: " + err.Error()
		return err
	default:
		s.places = res.Places
		s.radius = res.RadiusMeters
	}
	s.refreshLocked()
	return nil
}

// Filtered returns the current filtered and sorted view.
func (s *Session) Filtered() []model.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Place, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// Places returns the unfiltered results of the last search.
func (s *Session) Places() []model.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Place, len(s.places))
	copy(out, s.places)
	return out
}

// Error returns the message of the last failed or empty search.
func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// ClearError resets the session error.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// UpdatedAt reports the last search or mutation time.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	places := make([]model.Place, len(s.filtered))
	copy(places, s.filtered)
	return Snapshot{
		ID:           s.id,
		Categories:   s.categories.Slice(),
		Sort:         s.sort,
		Places:       places,
		RadiusMeters: s.radius,
		Error:        s.errMsg,
		UpdatedAt:    s.updatedAt,
	}
}

func (s *Session) refreshLocked() {
	s.filtered = ranking.ApplyFilterAndSort(s.places, s.categories, s.sort)
	s.updatedAt = time.Now()
}
