package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/cache"
	"github.com/sells-group/halfway/internal/config"
	"github.com/sells-group/halfway/internal/db"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/location"
	"github.com/sells-group/halfway/internal/lookup"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/search"
	"github.com/sells-group/halfway/internal/store"
	"github.com/sells-group/halfway/pkg/geocode"
	"github.com/sells-group/halfway/pkg/google"
)

// appEnv holds the collaborators shared by the commands.
type appEnv struct {
	Google       google.Client
	Lookup       *lookup.Service
	Store        store.Store
	Cache        cache.Store
	Orchestrator *search.Orchestrator
	Location     location.Provider
	Registry     *prometheus.Registry
}

// initEnv validates cfg for mode and wires clients, stores, and the
// orchestrator.
func initEnv(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	env := &appEnv{
		Google:   newGoogleClient(cfg.Google),
		Location: newLocationProvider(cfg.Location),
		Registry: prometheus.NewRegistry(),
	}

	st, err := initStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	env.Store = st
	env.Lookup = lookup.New(newGeocoder(cfg.Google), env.Google, st, cfg.Store.TTL())

	if mode == config.ModeSearch || mode == config.ModeServe {
		hot, err := cache.New(ctx, cache.Options{Driver: cfg.Cache.Driver, RedisURL: cfg.Cache.RedisURL})
		if err != nil {
			env.Close()
			return nil, eris.Wrap(err, "init cache")
		}
		env.Cache = hot

		metrics := search.NewMetrics()
		if err := metrics.Register(env.Registry); err != nil {
			env.Close()
			return nil, eris.Wrap(err, "register metrics")
		}
		env.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		env.Orchestrator = newOrchestrator(cfg.Search, cfg.Google.MaxResults, env.Google, hot, cfg.Cache.TTL(), metrics)
	}

	return env, nil
}

// Close releases the stores.
func (e *appEnv) Close() {
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			zap.L().Warn("close cache", zap.Error(err))
		}
	}
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

func newGoogleClient(gc config.GoogleConfig) google.Client {
	opts := []google.Option{google.WithRateLimit(gc.RateLimit)}
	if gc.PlacesBaseURL != "" {
		opts = append(opts, google.WithBaseURL(gc.PlacesBaseURL))
	}
	if gc.MapsBaseURL != "" {
		opts = append(opts, google.WithMapsBaseURL(gc.MapsBaseURL))
	}
	if gc.TimeoutSecs > 0 {
		opts = append(opts, google.WithTimeout(gc.Timeout()))
	}
	return google.NewClient(gc.APIKey, opts...)
}

func newGeocoder(gc config.GoogleConfig) geocode.Client {
	opts := []geocode.Option{geocode.WithRateLimit(gc.RateLimit)}
	if gc.MapsBaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(gc.MapsBaseURL+"/geocode/json"))
	}
	if gc.TimeoutSecs > 0 {
		opts = append(opts, geocode.WithHTTPClient(&http.Client{Timeout: gc.Timeout()}))
	}
	return geocode.NewClient(gc.APIKey, opts...)
}

func initStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, store.Options{
		Driver:      sc.Driver,
		DatabaseURL: sc.DatabaseURL,
		Pool:        db.PoolConfig{MaxConns: sc.MaxConns, MinConns: sc.MinConns},
	})
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

func newOrchestrator(sc config.SearchConfig, maxResults int, client google.Client, hot cache.Store, ttl time.Duration, metrics *search.Metrics) *search.Orchestrator {
	var searcher search.Searcher = search.NewGoogleSearcher(client, maxResults)
	searcher = search.NewCachedSearcher(searcher, hot, ttl)

	opts := []search.Option{
		search.WithDefaultCategories(ranking.NewCategorySet(sc.DefaultCategories...)),
		search.WithConcurrency(sc.Concurrency),
		search.WithMetrics(metrics),
	}
	if sc.MinRadiusM > 0 && sc.MaxRadiusM >= sc.MinRadiusM {
		opts = append(opts, search.WithRadiusBounds(sc.MinRadiusM, sc.MaxRadiusM))
	}
	if len(sc.EscalationRadiiM) > 0 {
		opts = append(opts, search.WithEscalationRadii(sc.EscalationRadiiM...))
	}
	return search.NewOrchestrator(searcher, opts...)
}

func newLocationProvider(lc config.LocationConfig) location.Provider {
	if !lc.Configured() {
		return &location.StaticProvider{}
	}
	return location.NewStaticProvider(geo.Coordinate{Latitude: *lc.Latitude, Longitude: *lc.Longitude})
}
