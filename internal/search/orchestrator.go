// Package search fans a nearby-place query out across categories, widens the
// search when nothing is found, and merges the results into one
// distance-annotated set.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/ranking"
)

// Radius bounds in meters.
const (
	DefaultMinRadius = 3000.0
	DefaultMaxRadius = 50000.0
)

// Searcher is the places collaborator: one nearby search for a single
// category.
type Searcher interface {
	SearchNearby(ctx context.Context, center geo.Coordinate, radiusMeters float64, category string) ([]model.Place, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, center geo.Coordinate, radiusMeters float64, category string) ([]model.Place, error)

// SearchNearby implements Searcher.
func (f SearcherFunc) SearchNearby(ctx context.Context, center geo.Coordinate, radiusMeters float64, category string) ([]model.Place, error) {
	return f(ctx, center, radiusMeters, category)
}

// Request is one orchestrated search. Selected is read once, at call time.
type Request struct {
	Midpoint geo.Coordinate
	A        geo.Coordinate
	B        geo.Coordinate
	Selected ranking.CategorySet
}

// Result is the merged outcome of a search.
type Result struct {
	// Places are unique by PlaceID with distances measured from the midpoint.
	Places []model.Place `json:"places"`
	// RadiusMeters is the radius of the last attempt made.
	RadiusMeters float64 `json:"radius_m"`
	// Escalations lists the fallback tiers entered, in order.
	Escalations []string `json:"escalations,omitempty"`
}

// NoPlacesError reports that every attempt came back empty. It is returned
// alongside a non-nil, empty Result.
type NoPlacesError struct {
	RadiusMeters float64
}

func (e *NoPlacesError) Error() string {
	return fmt.Sprintf("No places found within %.0f km.", e.RadiusMeters/1000)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefaultCategories replaces {cafe, restaurant, bar}.
func WithDefaultCategories(c ranking.CategorySet) Option {
	return func(o *Orchestrator) {
		if c.Len() > 0 {
			o.defaults = c.Clone()
		}
	}
}

// WithRadiusBounds sets the clamp applied to the initial radius.
func WithRadiusBounds(minMeters, maxMeters float64) Option {
	return func(o *Orchestrator) {
		o.minRadius, o.maxRadius = minMeters, maxMeters
	}
}

// WithEscalationRadii sets the radius ladder tried, in order, after the
// initial and default-category attempts come back empty. Tiers below the
// radius already searched are skipped; a tier equal to it is searched again.
func WithEscalationRadii(radii ...float64) Option {
	return func(o *Orchestrator) {
		o.ladder = append([]float64(nil), radii...)
	}
}

// WithConcurrency caps in-flight category requests. Zero means one goroutine
// per category.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithMetrics records search outcomes.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// Orchestrator runs multi-category nearby searches with fallback. It holds
// no per-search state and is safe for concurrent use.
type Orchestrator struct {
	searcher    Searcher
	defaults    ranking.CategorySet
	minRadius   float64
	maxRadius   float64
	ladder      []float64
	concurrency int
	metrics     *Metrics
	log         *zap.Logger
}

// NewOrchestrator creates an Orchestrator over the given places collaborator.
func NewOrchestrator(s Searcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		searcher:  s,
		defaults:  ranking.DefaultCategories(),
		minRadius: DefaultMinRadius,
		maxRadius: DefaultMaxRadius,
		ladder:    []float64{DefaultMaxRadius},
		log:       zap.L().Named("search"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultCategories returns a copy of the fallback category set.
func (o *Orchestrator) DefaultCategories() ranking.CategorySet {
	return o.defaults.Clone()
}

// SearchRadius derives the initial radius from the span between the two
// parties: half the span, clamped to the configured bounds.
func (o *Orchestrator) SearchRadius(a, b geo.Coordinate) float64 {
	spanKm := geo.DistanceKm(a, b)
	return geo.Clamp(spanKm/2*1000, o.minRadius, o.maxRadius)
}

// Search runs the category fan-out, falling back first to the default
// categories and then up the radius ladder while nothing is found.
// Per-category failures are logged and count as zero results. When nothing
// is found at all, Search returns an empty Result and a *NoPlacesError.
func (o *Orchestrator) Search(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	defer func() { o.metrics.observeDuration(time.Since(start).Seconds()) }()

	radius := o.SearchRadius(req.A, req.B)
	selected := req.Selected.Clone()
	categories := selected
	if categories.Len() == 0 {
		categories = o.defaults
	}

	res := &Result{RadiusMeters: radius}
	found := o.fanOut(ctx, req.Midpoint, radius, categories.Slice())

	if len(found) == 0 && selected.Len() > 0 && !selected.Equal(o.defaults) {
		o.escalate(res, TierDefaultCategories, radius)
		found = o.fanOut(ctx, req.Midpoint, radius, o.defaults.Slice())
	}

	for _, tier := range o.ladder {
		if len(found) > 0 {
			break
		}
		if tier < radius {
			continue
		}
		radius = tier
		res.RadiusMeters = radius
		o.escalate(res, TierRadius, radius)
		found = o.fanOut(ctx, req.Midpoint, radius, categories.Slice())
	}

	res.Places = dedupe(found, req.Midpoint)
	if len(res.Places) == 0 {
		o.metrics.incEmpty()
		return res, &NoPlacesError{RadiusMeters: res.RadiusMeters}
	}
	return res, nil
}

func (o *Orchestrator) escalate(res *Result, tier string, radius float64) {
	res.Escalations = append(res.Escalations, tier)
	o.metrics.incEscalation(tier)
	o.log.Info("search: escalating",
		zap.String("tier", tier),
		zap.Float64("radius_m", radius),
	)
}

// fanOut searches every category concurrently and waits for all of them.
// Results are concatenated in category order.
func (o *Orchestrator) fanOut(ctx context.Context, center geo.Coordinate, radius float64, categories []string) []model.Place {
	perCategory := make([][]model.Place, len(categories))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, category := range categories {
		g.Go(func() error {
			places, err := o.searcher.SearchNearby(ctx, center, radius, category)
			if err != nil {
				o.metrics.incCategory(StatusFailure)
				o.log.Warn("search: category failed",
					zap.String("category", category),
					zap.Float64("radius_m", radius),
					zap.Error(err),
				)
				return nil
			}
			o.metrics.incCategory(StatusSuccess)
			perCategory[i] = places
			return nil
		})
	}
	_ = g.Wait()

	var out []model.Place
	for _, places := range perCategory {
		out = append(out, places...)
	}
	return out
}

// dedupe keeps one entry per PlaceID. A later duplicate replaces the earlier
// value but keeps its position. Distances are recomputed from mid.
func dedupe(places []model.Place, mid geo.Coordinate) []model.Place {
	index := make(map[string]int, len(places))
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		p = p.WithDistanceFrom(mid)
		if i, ok := index[p.PlaceID]; ok {
			out[i] = p
			continue
		}
		index[p.PlaceID] = len(out)
		out = append(out, p)
	}
	return out
}
