package middleware

import (
	"context"
	"net/http"
	"strings"

	"ambulink/pkg/auth"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/logger"
	"ambulink/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const callerKey contextKey = "caller"

// Authenticate verifies the bearer token and stores the Caller in the
// request context.
func Authenticate(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))

			claims, err := auth.Parse(secret, token)
			if err != nil {
				log.Warn("Authentication failed",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = apperrors.WriteError(w, apperrors.Unauthorized("authentication required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), claims.Caller())))
		})
	}
}

func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(model.Caller)
	return caller, ok
}

// RequireRole wraps a single route; the caller must hold one of roles.
func RequireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			_ = apperrors.WriteError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		for _, role := range roles {
			if caller.Role == role {
				next(w, r)
				return
			}
		}
		_ = apperrors.WriteError(w, apperrors.Forbidden("insufficient role for this operation"))
	}
}

// RequireRoleHandle is RequireRole for httprouter handles.
func RequireRoleHandle(next httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		RequireRole(func(w http.ResponseWriter, r *http.Request) {
			next(w, r, ps)
		}, roles...)(w, r)
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
