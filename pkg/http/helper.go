package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ambulink/pkg/config"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// DecodeBody decodes a JSON request body, rejecting unknown payload shapes
// with a 400 instead of letting them reach the service layer.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return apperrors.InvalidInput("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}

// ParseDateParam parses YYYY-MM-DD or RFC3339 query values. Missing values
// return nil.
func ParseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter, expected YYYY-MM-DD or RFC3339: " + raw)
	}
	return &t, nil
}

func ParseBoolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return &v, nil
}

// CallerFromRequest returns the authenticated caller or an Unauthorized
// error when the request bypassed authentication.
func CallerFromRequest(r *http.Request) (model.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok || caller.UserID == "" {
		return model.Caller{}, apperrors.Unauthorized("authentication required")
	}
	return caller, nil
}
