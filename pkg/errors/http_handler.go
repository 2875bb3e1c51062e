package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError renders err as a bare ErrorResponse. Services behind the shared
// pkg/http helpers use the {"error": ...} envelope instead; this form is used
// by middleware that runs before a handler is resolved.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	return json.NewEncoder(w).Encode(ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
