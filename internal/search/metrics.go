package search

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricCategorySearchesTotal = "halfway_category_searches_total"
	MetricEscalationsTotal      = "halfway_search_escalations_total"
	MetricEmptySearchesTotal    = "halfway_searches_empty_total"
	MetricSearchDuration        = "halfway_search_duration_seconds"
)

// Label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	TierDefaultCategories = "default_categories"
	TierRadius            = "radius"
)

// Metrics holds the orchestrator's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	categorySearches *prometheus.CounterVec
	escalations      *prometheus.CounterVec
	emptySearches    prometheus.Counter
	duration         prometheus.Histogram
}

// NewMetrics creates unregistered collectors; call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		categorySearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCategorySearchesTotal,
				Help: "Per-category nearby searches by outcome",
			},
			[]string{"status"},
		),
		escalations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEscalationsTotal,
				Help: "Fallback tiers entered after an empty search",
			},
			[]string{"tier"},
		),
		emptySearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricEmptySearchesTotal,
			Help: "Searches that found nothing after every fallback",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSearchDuration,
			Help:    "End-to-end orchestrated search latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.categorySearches,
		m.escalations,
		m.emptySearches,
		m.duration,
	}
}

func (m *Metrics) incCategory(status string) {
	if m == nil {
		return
	}
	m.categorySearches.WithLabelValues(status).Inc()
}

func (m *Metrics) incEscalation(tier string) {
	if m == nil {
		return
	}
	m.escalations.WithLabelValues(tier).Inc()
}

func (m *Metrics) incEmpty() {
	if m == nil {
		return
	}
	m.emptySearches.Inc()
}

func (m *Metrics) observeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
