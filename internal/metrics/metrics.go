// Package metrics holds the Prometheus collectors of the orders admin service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service collectors.
type Metrics struct {
	listQueries      *prometheus.CounterVec
	listMatches      prometheus.Histogram
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
}

// New registers the collectors on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors on registerer. Collectors that
// are already registered are reused.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		listQueries: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_admin_list_queries_total",
			Help: "Order list queries by sort field and outcome",
		}, []string{"sort_by", "outcome"})),
		listMatches: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orders_admin_list_matches",
			Help:    "Number of orders matching a list query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})),
		upstreamRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_admin_upstream_requests_total",
			Help: "Requests sent to the remote orders API",
		}, []string{"resource", "operation", "outcome"})),
		upstreamDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orders_admin_upstream_request_duration_seconds",
			Help:    "Latency of requests to the remote orders API",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "operation"})),
		cacheLookups: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_admin_cache_lookups_total",
			Help: "Order snapshot cache lookups by result",
		}, []string{"result"})),
		eventsPublished: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_admin_events_published_total",
			Help: "Order events published by type and outcome",
		}, []string{"type", "outcome"})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return collector
}

// ObserveListQuery records one list query.
func (m *Metrics) ObserveListQuery(sortBy string, matches int, err error) {
	if m == nil {
		return
	}
	m.listQueries.WithLabelValues(sortBy, outcome(err)).Inc()
	if err == nil {
		m.listMatches.Observe(float64(matches))
	}
}

// ObserveUpstream records one call to the remote API.
func (m *Metrics) ObserveUpstream(resource, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(resource, operation, outcome(err)).Inc()
	m.upstreamDuration.WithLabelValues(resource, operation).Observe(time.Since(started).Seconds())
}

// CacheHit records a snapshot cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a snapshot cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// EventPublished records one event publish attempt.
func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
