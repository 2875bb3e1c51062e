package handler

import (
	"net/http"

	"ambulink/internal/bookings/service"
	httputil "ambulink/pkg/http"
	"ambulink/pkg/logger"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type createBookingRequest struct {
	model.Booking
	Driver string `json:"driver,omitempty"`
}

type statusRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

type assignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type rateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req createBookingRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), caller, &req.Booking, req.Driver)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	view, err := h.service.GetByID(r.Context(), ps.ByName("id"), caller)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := r.URL.Query()
	filter := model.BookingFilter{
		Status:      query.Get("status"),
		BookingType: query.Get("booking_type"),
		Search:      query.Get("search"),
	}
	if filter.FromDate, err = httputil.ParseDateParam(r, "from_date"); err != nil {
		h.writeError(w, "List", err)
		return
	}
	if filter.ToDate, err = httputil.ParseDateParam(r, "to_date"); err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, "Stats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	bookings, total, err := h.service.ListForRequester(r.Context(), caller, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "ListActive", err)
		return
	}

	bookings, err := h.service.ListActive(r.Context(), caller)
	if err != nil {
		h.writeError(w, "ListActive", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListActive", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	var req statusRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), req.Status, caller, req.CancellationReason)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) AssignDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "AssignDriver", err)
		return
	}

	var req assignDriverRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "AssignDriver", err)
		return
	}

	booking, err := h.service.AssignDriver(r.Context(), ps.ByName("id"), req.DriverID, caller)
	if err != nil {
		h.writeError(w, "AssignDriver", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "AssignDriver", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	// The body is optional for cancellation.
	var req cancelRequest
	if r.ContentLength > 0 {
		if err := httputil.DecodeBody(r, &req); err != nil {
			h.writeError(w, "Cancel", err)
			return
		}
	}

	booking, err := h.service.CancelBooking(r.Context(), ps.ByName("id"), req.Reason, caller)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Rate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "Rate", err)
		return
	}

	var req rateRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Rate", err)
		return
	}

	booking, err := h.service.RateBooking(r.Context(), ps.ByName("id"), req.Rating, req.Comment, caller)
	if err != nil {
		h.writeError(w, "Rate", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Rate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) AvailableDrivers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	drivers, err := h.service.ListAvailableDrivers(r.Context())
	if err != nil {
		h.writeError(w, "AvailableDrivers", err)
		return
	}

	if err := httputil.WriteSuccess(w, drivers); err != nil {
		h.log.Error("failed to write success response", "handler", "AvailableDrivers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) driverBookings(w http.ResponseWriter, r *http.Request, handler string, activeOnly bool) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, handler, err)
		return
	}
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, handler, err)
		return
	}

	bookings, total, err := h.service.ListForDriver(r.Context(), caller, activeOnly, limit, offset)
	if err != nil {
		h.writeError(w, handler, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", handler, "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) DriverBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.driverBookings(w, r, "DriverBookings", false)
}

func (h *BookingHandler) DriverActiveBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.driverBookings(w, r, "DriverActiveBookings", true)
}

func (h *BookingHandler) DriverStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "DriverStats", err)
		return
	}

	stats, err := h.service.DriverStats(r.Context(), caller)
	if err != nil {
		h.writeError(w, "DriverStats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "DriverStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	admin := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRoleHandle(next, model.RoleAdmin)
	}
	driver := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRoleHandle(next, model.RoleDriver)
	}

	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", admin(h.List))
	router.GET("/api/v1/bookings/stats", admin(h.Stats))
	router.GET("/api/v1/bookings/mine", h.ListMine)
	router.GET("/api/v1/bookings/active", h.ListActive)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PUT("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.PUT("/api/v1/bookings/id/:id/assign-driver", admin(h.AssignDriver))
	router.PUT("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.PUT("/api/v1/bookings/id/:id/rate", h.Rate)

	router.GET("/api/v1/drivers/available", admin(h.AvailableDrivers))
	router.GET("/api/v1/drivers/me/bookings", driver(h.DriverBookings))
	router.GET("/api/v1/drivers/me/bookings/active", driver(h.DriverActiveBookings))
	router.GET("/api/v1/drivers/me/stats", driver(h.DriverStats))
}
