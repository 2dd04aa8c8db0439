package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestLabels = []string{"service", "method", "path", "status"}

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by route pattern and status",
	}, requestLabels)

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, event streams excluded",
		Buckets: prometheus.DefBuckets,
	}, requestLabels)

	httpStreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_stream_duration_seconds",
		Help:    "Seconds an event-stream client stayed connected",
		Buckets: []float64{1, 10, 60, 300, 900, 3600, 14400},
	}, []string{"service", "path"})

	httpRequestsInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "HTTP requests currently being served",
	}, []string{"service"})
)

// routePattern is the matched chi pattern, known only once routing finished.
// Requests served outside a chi router are labelled "unknown".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unknown"
}

// PrometheusMetrics counts requests per route pattern and observes their
// latency. Event streams stay open for hours, so their connection time is
// kept in its own histogram.
func PrometheusMetrics(serviceName string) func(next http.Handler) http.Handler {
	inFlight := httpRequestsInFlight.WithLabelValues(serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inFlight.Inc()
			defer inFlight.Dec()

			began := time.Now()
			sw := wrapWriter(w)
			next.ServeHTTP(sw, r)
			elapsed := time.Since(began).Seconds()

			route := routePattern(r)
			status := strconv.Itoa(sw.status)
			httpRequestsTotal.WithLabelValues(serviceName, r.Method, route, status).Inc()

			if sw.streaming() {
				httpStreamDuration.WithLabelValues(serviceName, route).Observe(elapsed)
			} else {
				httpRequestDuration.WithLabelValues(serviceName, r.Method, route, status).Observe(elapsed)
			}
		})
	}
}
