package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payoff_http_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payoff_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	projectionCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payoff_projection_cache_total",
		Help: "Projection cache lookups by result (hit, miss)",
	}, []string{"result"})

	debtsProjectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payoff_debts_projected_total",
		Help: "Debts projected by plan outcome (converged, never)",
	}, []string{"outcome"})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records request count and latency for route.
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(route))
		defer timer.ObserveDuration()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}
