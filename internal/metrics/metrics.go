// Package metrics exposes Prometheus metrics for the documentation server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/muxhandlers"
)

const namespace = "routedoc"

// unmatchedRoute labels requests that matched no registered route, keeping
// the label set bounded.
const unmatchedRoute = "unmatched"

// Metrics contains the collectors recorded by the server.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "generations_total",
				Help:      "Total number of OpenAPI document generations",
			},
			[]string{"status"},
		),

		GenerationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "generation_duration_seconds",
				Help:      "OpenAPI document generation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry owns a Prometheus registry with the routedoc collectors and the
// Go runtime and process collectors.
type Registry struct {
	registry *prometheus.Registry
	Metrics  *Metrics
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		Metrics:  NewMetrics(),
	}

	r.registry.MustRegister(
		r.Metrics.GenerationsTotal,
		r.Metrics.GenerationDuration,
		r.Metrics.RequestsTotal,
		r.Metrics.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// PrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveGeneration records one document generation. Its signature matches
// openapi.HandleConfig.OnBuild.
func (r *Registry) ObserveGeneration(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.Metrics.GenerationsTotal.WithLabelValues(status).Inc()
	r.Metrics.GenerationDuration.Observe(d.Seconds())
}

// Middleware counts requests by method, route template and status code.
// Route templates rather than raw paths keep the label cardinality bounded.
func (r *Registry) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			sw := muxhandlers.NewStatusWriter(w)

			next.ServeHTTP(sw, req)

			route := unmatchedRoute
			if current := mux.CurrentRoute(req); current != nil {
				route = current.GetPathTemplate()
			}

			r.Metrics.RequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(sw.Status())).Inc()
			r.Metrics.RequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
