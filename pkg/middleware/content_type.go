package middleware

import (
	"mime"
	"net/http"

	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/logger"
)

const jsonContentType = "application/json"

// ContentTypeValidation rejects write requests whose body is not JSON.
// Body-less writes such as PUT /verify pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != jsonContentType {
				log.Warn("Invalid Content-Type header",
					"request_id", RequestIDFromContext(r.Context()),
					"content_type", r.Header.Get("Content-Type"),
					"route", routeLabel(r.URL.Path),
					"method", r.Method,
				)
				_ = apperrors.WriteError(w, apperrors.New(apperrors.CodeInvalidInput,
					"Content-Type must be application/json", http.StatusUnsupportedMediaType))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	if r.ContentLength == 0 {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
