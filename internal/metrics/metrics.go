// Package metrics exposes Prometheus collectors for solver runs and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Solve outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeLimited  = "limited"
)

// Metrics owns a dedicated registry so that several instances (tests,
// embedded servers) never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	solves        *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	solveExplored *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers all collectors, including Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "knapsack_solves_total", Help: "Solver runs by algorithm and outcome."},
			[]string{"algorithm", "outcome"},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "knapsack_solve_duration_seconds", Help: "Solver wall time in seconds.", Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12)},
			[]string{"algorithm"},
		),
		solveExplored: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "knapsack_solve_explored_states", Help: "Search states evaluated per solve.", Buckets: prometheus.ExponentialBuckets(1, 10, 10)},
			[]string{"algorithm"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "path", "status"},
		),
	}

	m.registry.MustRegister(
		m.solves,
		m.solveDuration,
		m.solveExplored,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSolve records one solver run. explored is ignored unless outcome is OutcomeOK.
func (m *Metrics) ObserveSolve(algorithm, outcome string, elapsed time.Duration, explored int) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(algorithm, outcome).Inc()
	m.solveDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.solveExplored.WithLabelValues(algorithm).Observe(float64(explored))
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
