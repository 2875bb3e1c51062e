package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/logger"
	"ambulink/pkg/observability"
)

// Recovery turns a handler panic into a 500 and counts it per route.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				route := routeLabel(r.URL.Path)
				observability.HTTPPanicsTotal.WithLabelValues(route).Inc()
				log.Error("Panic recovered",
					"request_id", RequestIDFromContext(r.Context()),
					"error", rec,
					"method", r.Method,
					"route", route,
					"stack", string(debug.Stack()),
				)

				_ = apperrors.WriteError(w, apperrors.Internal("Internal server error", fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
