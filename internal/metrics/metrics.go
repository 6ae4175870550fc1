// Package metrics holds the Prometheus collectors of the explorer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Degradation reasons reported by the service.
const (
	DegradedCenterPlaceholder = "center_placeholder"
	DegradedPathIncomplete    = "path_incomplete"
	DegradedPathTopology      = "path_topology"
)

// Metrics groups the collectors registered on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	builds          *prometheus.CounterVec
	buildNodes      *prometheus.HistogramVec
	degradations    *prometheus.CounterVec
	sourceRequests  *prometheus.CounterVec
	sourceDurations *prometheus.HistogramVec
}

// New registers all collectors plus the Go and process collectors on a fresh
// registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relgraph",
			Name:      "graph_builds_total",
			Help:      "Graphs built by kind.",
		}, []string{"kind"}),
		buildNodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "relgraph",
			Name:      "graph_nodes",
			Help:      "Nodes per built graph.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"kind"}),
		degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relgraph",
			Name:      "degraded_results_total",
			Help:      "Results produced with best-effort degraded behavior, by reason.",
		}, []string{"reason"}),
		sourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relgraph",
			Name:      "source_requests_total",
			Help:      "Relationship source calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		sourceDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "relgraph",
			Name:      "source_request_duration_seconds",
			Help:      "Relationship source call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.builds,
		m.buildNodes,
		m.degradations,
		m.sourceRequests,
		m.sourceDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records a built graph of the given kind and size.
func (m *Metrics) ObserveBuild(kind string, nodes int) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(kind).Inc()
	m.buildNodes.WithLabelValues(kind).Observe(float64(nodes))
}

// Degraded counts one degraded result.
func (m *Metrics) Degraded(reason string) {
	if m == nil {
		return
	}
	m.degradations.WithLabelValues(reason).Inc()
}

// ObserveSource records the outcome and latency of a source call.
func (m *Metrics) ObserveSource(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.sourceRequests.WithLabelValues(operation, outcome).Inc()
	m.sourceDurations.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
