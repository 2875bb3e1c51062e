package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ambulink/pkg/auth"
	"ambulink/pkg/client"
	"ambulink/pkg/config"
	"ambulink/pkg/logger"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/ping", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		caller, _ := middleware.CallerFromContext(r.Context())
		w.Header().Set("X-Caller", caller.UserID)
		w.WriteHeader(http.StatusOK)
	})
}

func testConfig() *config.Config {
	cfg := config.FromEnv("test")
	cfg.Log = logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard, Service: "test"})
	cfg.Client = client.NewClient()
	cfg.JWTSecret = "application-test-secret"
	return cfg
}

func TestApplication_RoutesThroughMiddleware(t *testing.T) {
	cfg := testConfig()
	a := NewApplication(cfg)
	a.SetApp(pingHandler{})
	h := a.Handler()

	token, err := auth.Issue(cfg.JWTSecret, "user-1", model.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"health is public", "/health", "", http.StatusOK},
		{"api requires token", "/api/v1/ping", "", http.StatusUnauthorized},
		{"api with token", "/api/v1/ping", token, http.StatusOK},
		{"unknown route", "/api/v1/nope", token, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestApplication_HealthOnly(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp()

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without app handlers", w.Code)
	}
}
