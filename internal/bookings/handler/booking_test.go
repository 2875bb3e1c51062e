package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ambulink/internal/bookings/service"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/logger"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc       func(ctx context.Context, caller model.Caller, booking *model.Booking, driverID string) (*model.Booking, error)
	assignFunc       func(ctx context.Context, bookingID, driverID string, caller model.Caller) (*model.Booking, error)
	updateStatusFunc func(ctx context.Context, bookingID, status string, caller model.Caller, reason string) (*model.Booking, error)
	cancelFunc       func(ctx context.Context, bookingID, reason string, caller model.Caller) (*model.Booking, error)
	rateFunc         func(ctx context.Context, bookingID string, rating int, comment string, caller model.Caller) (*model.Booking, error)
	listFunc         func(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	listDriverFunc   func(ctx context.Context, caller model.Caller, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, caller model.Caller, booking *model.Booking, driverID string) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, caller, booking, driverID)
	}
	return booking, nil
}

func (m *mockBookingService) AssignDriver(ctx context.Context, bookingID, driverID string, caller model.Caller) (*model.Booking, error) {
	if m.assignFunc != nil {
		return m.assignFunc(ctx, bookingID, driverID, caller)
	}
	return &model.Booking{ID: bookingID}, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, bookingID, status string, caller model.Caller, reason string) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, bookingID, status, caller, reason)
	}
	return &model.Booking{ID: bookingID, Status: status}, nil
}

func (m *mockBookingService) CancelBooking(ctx context.Context, bookingID, reason string, caller model.Caller) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, bookingID, reason, caller)
	}
	return &model.Booking{ID: bookingID, Status: model.BookingStatusCancelled}, nil
}

func (m *mockBookingService) RateBooking(ctx context.Context, bookingID string, rating int, comment string, caller model.Caller) (*model.Booking, error) {
	if m.rateFunc != nil {
		return m.rateFunc(ctx, bookingID, rating, comment, caller)
	}
	return &model.Booking{ID: bookingID}, nil
}

func (m *mockBookingService) ListAvailableDrivers(ctx context.Context) ([]*model.Driver, error) {
	return []*model.Driver{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string, caller model.Caller) (*service.BookingView, error) {
	return &service.BookingView{Booking: &model.Booking{ID: id}}, nil
}

func (m *mockBookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) ListForRequester(ctx context.Context, caller model.Caller, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) ListActive(ctx context.Context, caller model.Caller) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) ListForDriver(ctx context.Context, caller model.Caller, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.listDriverFunc != nil {
		return m.listDriverFunc(ctx, caller, activeOnly, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Stats(ctx context.Context) (*service.BookingStats, error) {
	return &service.BookingStats{}, nil
}

func (m *mockBookingService) DriverStats(ctx context.Context, caller model.Caller) (*service.DriverStats, error) {
	return &service.DriverStats{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func newTestRouter(svc service.BookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, testLogger()).RegisterRoutes(router)
	return router
}

func authed(r *http.Request, userID, role string) *http.Request {
	return r.WithContext(middleware.WithCaller(r.Context(), model.Caller{UserID: userID, Role: role}))
}

const testUserID = "65f0a1b2c3d4e5f600000001"

func TestCreate_PassesCallerAndDriver(t *testing.T) {
	var gotCaller model.Caller
	var gotDriver string
	var gotBooking *model.Booking
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, caller model.Caller, booking *model.Booking, driverID string) (*model.Booking, error) {
			gotCaller, gotDriver, gotBooking = caller, driverID, booking
			booking.ID = "65f0a1b2c3d4e5f6000000aa"
			return booking, nil
		},
	}

	body := `{"booking_type":"emergency","patient_details":{"name":"Asha"},"pickup_location":{"address":"MG Road"},"driver":"65f0a1b2c3d4e5f6000000dd"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)), testUserID, model.RoleAdmin)
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotCaller.UserID != testUserID || !gotCaller.IsAdmin() {
		t.Errorf("caller = %+v", gotCaller)
	}
	if gotDriver != "65f0a1b2c3d4e5f6000000dd" {
		t.Errorf("driver = %q", gotDriver)
	}
	if gotBooking.BookingType != model.BookingTypeEmergency || gotBooking.PatientDetails.Name != "Asha" {
		t.Errorf("booking = %+v", gotBooking)
	}

	var response struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.ID != "65f0a1b2c3d4e5f6000000aa" {
		t.Errorf("expected created id in response, got %q", response.Data.ID)
	}
}

func TestCreate_RequiresCaller(t *testing.T) {
	h := NewBookingHandler(&mockBookingService{}, testLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"booking_type":`)), testUserID, model.RoleUser)
	w := httptest.NewRecorder()

	newTestRouter(&mockBookingService{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestList_QueryParameters(t *testing.T) {
	var gotFilter model.BookingFilter
	var gotLimit int
	var gotOffset int64
	svc := &mockBookingService{
		listFunc: func(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotFilter, gotLimit, gotOffset = filter, limit, offset
			return []*model.Booking{{ID: "1"}, {ID: "2"}}, 42, nil
		},
	}

	tests := []struct {
		name       string
		query      string
		expectCode int
	}{
		{"valid filters", "?status=pending&booking_type=emergency&search=rao&from_date=2024-06-01&to_date=2024-06-30&limit=20&offset=40", http.StatusOK},
		{"invalid limit", "?limit=abc", http.StatusBadRequest},
		{"invalid offset", "?offset=xyz", http.StatusBadRequest},
		{"invalid from_date", "?from_date=yesterday", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/bookings"+tt.query, nil), testUserID, model.RoleAdmin)
			w := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
		})
	}

	if gotFilter.Status != "pending" || gotFilter.BookingType != "emergency" || gotFilter.Search != "rao" {
		t.Errorf("filter = %+v", gotFilter)
	}
	if gotFilter.FromDate == nil || !gotFilter.FromDate.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FromDate = %v", gotFilter.FromDate)
	}
	if gotFilter.ToDate == nil || gotFilter.ToDate.Day() != 30 {
		t.Errorf("ToDate = %v", gotFilter.ToDate)
	}
	if gotLimit != 20 || gotOffset != 40 {
		t.Errorf("expected limit 20 offset 40, got %d %d", gotLimit, gotOffset)
	}
}

func TestRoutes_RoleGating(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		role       string
		expectCode int
	}{
		{"admin list as user", http.MethodGet, "/api/v1/bookings", model.RoleUser, http.StatusForbidden},
		{"admin list as admin", http.MethodGet, "/api/v1/bookings", model.RoleAdmin, http.StatusOK},
		{"stats as driver", http.MethodGet, "/api/v1/bookings/stats", model.RoleDriver, http.StatusForbidden},
		{"available drivers as admin", http.MethodGet, "/api/v1/drivers/available", model.RoleAdmin, http.StatusOK},
		{"driver bookings as user", http.MethodGet, "/api/v1/drivers/me/bookings", model.RoleUser, http.StatusForbidden},
		{"driver bookings as driver", http.MethodGet, "/api/v1/drivers/me/bookings", model.RoleDriver, http.StatusOK},
		{"driver stats as driver", http.MethodGet, "/api/v1/drivers/me/stats", model.RoleDriver, http.StatusOK},
		{"own bookings as user", http.MethodGet, "/api/v1/bookings/mine", model.RoleUser, http.StatusOK},
		{"active bookings as user", http.MethodGet, "/api/v1/bookings/active", model.RoleUser, http.StatusOK},
		{"assign as user", http.MethodPut, "/api/v1/bookings/id/65f0a1b2c3d4e5f6000000aa/assign-driver", model.RoleUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`)), testUserID, tt.role)
			w := httptest.NewRecorder()

			newTestRouter(&mockBookingService{}).ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d", tt.expectCode, w.Code)
			}
		})
	}
}

func TestDriverActiveBookings_SetsActiveOnly(t *testing.T) {
	var gotActive bool
	svc := &mockBookingService{
		listDriverFunc: func(ctx context.Context, caller model.Caller, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotActive = activeOnly
			return []*model.Booking{}, 0, nil
		},
	}
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/drivers/me/bookings/active", nil), testUserID, model.RoleDriver)
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !gotActive {
		t.Error("expected activeOnly=true")
	}
}

func TestUpdateStatus_PassesBody(t *testing.T) {
	var gotID, gotStatus, gotReason string
	svc := &mockBookingService{
		updateStatusFunc: func(ctx context.Context, bookingID, status string, caller model.Caller, reason string) (*model.Booking, error) {
			gotID, gotStatus, gotReason = bookingID, status, reason
			return &model.Booking{ID: bookingID, Status: status}, nil
		},
	}
	body := `{"status":"cancelled","cancellation_reason":"arranged own transport"}`
	req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/abc123/status", strings.NewReader(body)), testUserID, model.RoleUser)
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotID != "abc123" || gotStatus != "cancelled" || gotReason != "arranged own transport" {
		t.Errorf("got id %q status %q reason %q", gotID, gotStatus, gotReason)
	}
}

func TestCancel_EmptyBody(t *testing.T) {
	called := false
	svc := &mockBookingService{
		cancelFunc: func(ctx context.Context, bookingID, reason string, caller model.Caller) (*model.Booking, error) {
			called = true
			if reason != "" {
				t.Errorf("expected empty reason, got %q", reason)
			}
			return &model.Booking{ID: bookingID, Status: model.BookingStatusCancelled}, nil
		},
	}
	req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/abc123/cancel", nil), testUserID, model.RoleUser)
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK || !called {
		t.Errorf("expected status 200 and service call, got %d called=%v", w.Code, called)
	}
}

func TestRate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expectCode int
		expectErr  string
	}{
		{"already rated", apperrors.InvalidTransition("booking already rated"), http.StatusBadRequest, apperrors.CodeInvalidTransition},
		{"out of range", apperrors.InvalidInput("rating must be between 1 and 5"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"not allowed", apperrors.Forbidden("not authorized to access this booking"), http.StatusForbidden, apperrors.CodeForbidden},
		{"missing", apperrors.NotFoundWithID("Booking", "abc123"), http.StatusNotFound, apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				rateFunc: func(ctx context.Context, bookingID string, rating int, comment string, caller model.Caller) (*model.Booking, error) {
					return nil, tt.err
				},
			}
			req := authed(httptest.NewRequest(http.MethodPut, "/api/v1/bookings/id/abc123/rate", strings.NewReader(`{"rating":5}`)), testUserID, model.RoleUser)
			w := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d", tt.expectCode, w.Code)
			}
			var response struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Code != tt.expectErr {
				t.Errorf("expected code %s, got %s", tt.expectErr, response.Code)
			}
		})
	}
}
