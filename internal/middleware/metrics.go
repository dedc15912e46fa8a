package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HTTPMetrics records request count and latency per route pattern.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		code := strconv.Itoa(status)

		metrics.RequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		metrics.RequestLatency.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}

// routePattern keeps label cardinality bounded: ids in paths collapse into
// the chi pattern, unmatched paths share one label.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if patt := rc.RoutePattern(); patt != "" {
			return patt
		}
	}
	return "unmatched"
}
