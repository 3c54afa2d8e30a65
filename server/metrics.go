package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	rateRequestsTotal       prometheus.Counter
	conversionRequestsTotal prometheus.Counter
	failedLookupsTotal      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status_class"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		rateRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fxconvert_rate_requests_total",
				Help: "Total number of exchange rate requests",
			},
		),

		conversionRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fxconvert_conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
		),

		failedLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxconvert_failed_lookups_total",
				Help: "Total number of failed rate lookups, by response status",
			},
			[]string{"status"},
		),
	}
}

// middleware records the request count and duration, per route pattern
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		if route == "/metrics" {
			return
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, r.Method, fmt.Sprintf("%dxx", status/100)).Inc()
	})
}
