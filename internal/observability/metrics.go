package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "realestate_api"

// Metrics holds the Prometheus counters and histograms for the search API.
type Metrics struct {
	SearchesTotal       *prometheus.CounterVec // labels: outcome={success,error,invalid}
	SearchDuration      prometheus.Histogram
	PropertiesReturned  prometheus.Histogram
	RadiusFilteredTotal prometheus.Counter

	// Scraper sidecar metrics.
	ScraperDuration prometheus.Histogram
	ScraperCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Search event publishing.
	SearchEvents *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// multiple tests can each build their own without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Property searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of a property search.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		PropertiesReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "properties_returned",
			Help:      "Number of properties returned per successful search.",
			Buckets:   []float64{0, 1, 10, 50, 100, 200, 500, 1000, 5000, 10000},
		}),
		RadiusFilteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radius_filtered_total",
			Help:      "Total rows dropped by the radius filter.",
		}),
		ScraperDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scraper_request_duration_seconds",
			Help:      "HomeHarvest scraper request duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		ScraperCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scraper_cache_total",
			Help:      "Scrape result cache lookups by result.",
		}, []string{"result"}),
		SearchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_events_total",
			Help:      "Search events published by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.SearchesTotal,
		m.SearchDuration,
		m.PropertiesReturned,
		m.RadiusFilteredTotal,
		m.ScraperDuration,
		m.ScraperCache,
		m.SearchEvents,
	}
}
