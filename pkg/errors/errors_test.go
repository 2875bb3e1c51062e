package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound, "Booking not found"},
		{"not found with id", NotFoundWithID("Driver", "abc"), CodeNotFound, http.StatusNotFound, "Driver not found"},
		{"validation", Validation("bad booking", nil), CodeValidation, http.StatusUnprocessableEntity, "bad booking"},
		{"invalid transition", InvalidTransition("booking already completed"), CodeInvalidTransition, http.StatusBadRequest, "booking already completed"},
		{"invalid input", InvalidInput("rating must be between 1 and 5"), CodeInvalidInput, http.StatusBadRequest, "rating must be between 1 and 5"},
		{"unauthorized", Unauthorized("missing token"), CodeUnauthorized, http.StatusUnauthorized, "missing token"},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden, "not your booking"},
		{"conflict", Conflict("license taken"), CodeConflict, http.StatusConflict, "license taken"},
		{"internal", Internal("boom", errors.New("db down")), CodeInternal, http.StatusInternalServerError, "boom"},
		{"timeout", Timeout("too slow"), CodeTimeout, http.StatusGatewayTimeout, "too slow"},
		{"unavailable", Unavailable("redis"), CodeUnavailable, http.StatusServiceUnavailable, "redis is temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "65f0c0ffee")
	if err.Details["id"] != "65f0c0ffee" || err.Details["resource"] != "Booking" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestAppError_ErrorString(t *testing.T) {
	plain := InvalidTransition("cannot cancel")
	if got := plain.Error(); got != "INVALID_TRANSITION: cannot cancel" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Internal("failed to save booking", errors.New("write conflict"))
	if got := wrapped.Error(); got != "INTERNAL_ERROR: failed to save booking (caused by: write conflict)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAppError_UnwrapAndAs(t *testing.T) {
	root := errors.New("socket closed")
	appErr := Wrap(root, CodeUnavailable, "mongo unavailable", http.StatusServiceUnavailable)

	if !errors.Is(appErr, root) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	outer := fmt.Errorf("assign driver: %w", appErr)
	if !IsAppError(outer) {
		t.Error("IsAppError should see through fmt.Errorf wrapping")
	}
	if !HasCode(outer, CodeUnavailable) {
		t.Error("HasCode should match the wrapped AppError code")
	}
	if AsAppError(outer) != appErr {
		t.Error("AsAppError should return the wrapped AppError")
	}
}

func TestAsAppError_PlainError(t *testing.T) {
	got := AsAppError(errors.New("unexpected"))
	if got.Code != CodeInternal || got.StatusCode() != http.StatusInternalServerError {
		t.Errorf("plain errors should map to internal, got %s/%d", got.Code, got.StatusCode())
	}
	if HasCode(errors.New("x"), CodeInternal) {
		t.Error("HasCode must be false for non-AppError values")
	}
}

func TestStatusCode_ZeroDefaultsToInternal(t *testing.T) {
	err := &AppError{Code: "CUSTOM", Message: "no status"}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d", err.StatusCode())
	}
}

func TestWithDetailsAndToJSON(t *testing.T) {
	err := Validation("booking validation failed", nil).WithDetails(map[string]any{"field": "pickupLocation.address"})

	var decoded ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("ToJSON produced invalid JSON: %v", jsonErr)
	}
	if decoded.Code != CodeValidation || decoded.Details["field"] != "pickupLocation.address" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteError(w, Forbidden("admins only")); err != nil {
		t.Fatalf("WriteError: %v", err)
	}

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != CodeForbidden || body.Message != "admins only" {
		t.Errorf("unexpected body: %+v", body)
	}
}
