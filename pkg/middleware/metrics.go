package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"ambulink/pkg/observability"
)

var reObjectID = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)

// Metrics records request counts and latency. Object ids in the path are
// collapsed to ":id" to keep label cardinality bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			path := routeLabel(r.URL.Path)
			status := strconv.Itoa(wrapped.statusCode)
			observability.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			observability.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

func routeLabel(path string) string {
	return reObjectID.ReplaceAllString(path, "/:id$1")
}
