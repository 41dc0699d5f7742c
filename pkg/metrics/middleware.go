package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	previewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooltipage_preview_requests_total",
			Help: "Preview server requests by route kind and status",
		},
		[]string{"route", "status"},
	)

	previewRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mooltipage_preview_request_duration_seconds",
			Help:    "Preview server request duration in seconds. Page requests include the compile.",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route"},
	)
)

// Route kinds of the preview server.
const (
	RoutePage     = "page"
	RouteResource = "resource"
	RouteMetrics  = "metrics"
	RouteOther    = "other"
)

// routeKind maps a chi route pattern to one of the route kinds.
func routeKind(pattern string) string {
	switch {
	case pattern == "/metrics":
		return RouteMetrics
	case strings.HasPrefix(pattern, "/resources/"):
		return RouteResource
	case pattern == "/*":
		return RoutePage
	}
	return RouteOther
}

// Middleware records preview requests per route kind, so page paths never
// become label values.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		pattern := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			pattern = rctx.RoutePattern()
		}
		route := routeKind(pattern)

		previewRequestsTotal.WithLabelValues(route, strconv.Itoa(ww.status)).Inc()
		previewRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// PreviewRequestsTotal is exposed for tests.
func PreviewRequestsTotal() *prometheus.CounterVec { return previewRequestsTotal }

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
