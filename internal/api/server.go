// Package api exposes the meeting-point engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/lookup"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/session"
	"github.com/sells-group/halfway/pkg/google"
)

// Lookup is the geocoding and place-details collaborator. *lookup.Service
// implements it.
type Lookup interface {
	ResolveAddress(ctx context.Context, text string) (geo.NamedLocation, error)
	ResolveCoordinate(ctx context.Context, c geo.Coordinate) (geo.NamedLocation, error)
	PlaceDetails(ctx context.Context, placeID string) (*model.Place, error)
	Suggestions(ctx context.Context, input string) ([]lookup.Suggestion, error)
	Directions(ctx context.Context, origin, dest geo.Coordinate, mode string) (*google.Leg, error)
	PhotoURL(ref string, maxWidth int) string
}

// Deps are the collaborators served by the router.
type Deps struct {
	Searcher    session.Searcher
	Lookup      Lookup
	Sessions    *session.Registry
	Gatherer    prometheus.Gatherer
	DefaultSort ranking.SortOption
}

// Options tune the router.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type server struct {
	deps Deps
}

// NewRouter builds the HTTP handler.
func NewRouter(deps Deps, opts Options) http.Handler {
	if deps.DefaultSort == "" {
		deps.DefaultSort = ranking.SortDistance
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.NewRegistry()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	s := &server{deps: deps}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Post("/midpoint", s.midpoint)
		r.Post("/search", s.search)

		r.Get("/geocode", s.geocode)
		r.Get("/reverse", s.reverse)
		r.Get("/places/{id}", s.placeDetails)
		r.Get("/suggestions", s.suggestions)
		r.Get("/directions", s.directions)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Put("/sort", s.setSessionSort)
				r.Delete("/categories", s.clearSessionCategories)
				r.Post("/categories/reset", s.resetSessionCategories)
				r.Post("/categories/{category}", s.toggleSessionCategory)
				r.Post("/search", s.searchSession)
			})
		})
	})

	return r
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
