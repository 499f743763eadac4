// Package monitoring provides Prometheus metrics collection for the web
// frontend and its backend API calls.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Backend API metrics
	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	// Business metrics
	imagesAnalyzedTotal   prometheus.Counter
	recipesGeneratedTotal prometheus.Counter
	recipesSavedTotal     prometheus.Counter

	// Session metrics
	sessionsActive prometheus.Gauge
}

// NewMetricsCollector creates a new metrics collector with its own registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()

	m := &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fridgechef_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fridgechef_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		backendRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fridgechef_backend_requests_total",
				Help: "Total number of requests to the recipe backend API",
			},
			[]string{"endpoint", "status_code"},
		),
		backendRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fridgechef_backend_request_duration_seconds",
				Help:    "Recipe backend API request latency",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		imagesAnalyzedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fridgechef_images_analyzed_total",
			Help: "Total number of fridge images submitted for analysis",
		}),
		recipesGeneratedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fridgechef_recipes_generated_total",
			Help: "Total number of recipe generation requests",
		}),
		recipesSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fridgechef_recipes_saved_total",
			Help: "Total number of recipes saved to profiles",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fridgechef_sessions_active",
			Help: "Number of live browser sessions",
		}),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.backendRequestsTotal,
		m.backendRequestDuration,
		m.imagesAnalyzedTotal,
		m.recipesGeneratedTotal,
		m.recipesSavedTotal,
		m.sessionsActive,
	)

	return m
}

// Handler returns the Prometheus scrape handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware instruments served requests
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		m.httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(wrapped.status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// ObserveBackendRequest records one backend API call
func (m *MetricsCollector) ObserveBackendRequest(endpoint string, statusCode int, duration time.Duration) {
	m.backendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.backendRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordImageAnalyzed increments the analyzed-images counter
func (m *MetricsCollector) RecordImageAnalyzed() {
	m.imagesAnalyzedTotal.Inc()
}

// RecordRecipesGenerated increments the generation counter
func (m *MetricsCollector) RecordRecipesGenerated() {
	m.recipesGeneratedTotal.Inc()
}

// RecordRecipeSaved increments the saved-recipes counter
func (m *MetricsCollector) RecordRecipeSaved() {
	m.recipesSavedTotal.Inc()
}

// SessionOpened and SessionClosed track the live session gauge

func (m *MetricsCollector) SessionOpened() { m.sessionsActive.Inc() }

func (m *MetricsCollector) SessionClosed() { m.sessionsActive.Dec() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
