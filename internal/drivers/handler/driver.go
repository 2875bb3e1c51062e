package handler

import (
	"net/http"

	"ambulink/internal/drivers/service"
	apperrors "ambulink/pkg/errors"
	httputil "ambulink/pkg/http"
	"ambulink/pkg/logger"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

type locationRequest struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type DriverHandler struct {
	service service.DriverService
	log     *logger.Logger
}

func NewDriverHandler(service service.DriverService, log *logger.Logger) *DriverHandler {
	return &DriverHandler{
		service: service,
		log:     log,
	}
}

func (h *DriverHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DriverHandler) writeDriver(w http.ResponseWriter, handler string, driver *model.Driver) {
	if err := httputil.WriteSuccess(w, driver); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *DriverHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	var reg model.DriverRegistration
	if err := httputil.DecodeBody(r, &reg); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	driver, err := h.service.Register(r.Context(), caller, &reg)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, driver); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *DriverHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "GetMine", err)
		return
	}

	driver, err := h.service.GetMine(r.Context(), caller)
	if err != nil {
		h.writeError(w, "GetMine", err)
		return
	}
	h.writeDriver(w, "GetMine", driver)
}

func (h *DriverHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "UpdateAvailability", err)
		return
	}

	var req availabilityRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "UpdateAvailability", err)
		return
	}
	if req.IsAvailable == nil {
		h.writeError(w, "UpdateAvailability", apperrors.InvalidInput("is_available is required"))
		return
	}

	driver, err := h.service.UpdateAvailability(r.Context(), caller, *req.IsAvailable)
	if err != nil {
		h.writeError(w, "UpdateAvailability", err)
		return
	}
	h.writeDriver(w, "UpdateAvailability", driver)
}

func (h *DriverHandler) UpdateLocation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "UpdateLocation", err)
		return
	}

	var req locationRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "UpdateLocation", err)
		return
	}
	if req.Longitude == nil || req.Latitude == nil {
		h.writeError(w, "UpdateLocation", apperrors.InvalidInput("longitude and latitude are required"))
		return
	}

	driver, err := h.service.UpdateLocation(r.Context(), caller, *req.Longitude, *req.Latitude)
	if err != nil {
		h.writeError(w, "UpdateLocation", err)
		return
	}
	h.writeDriver(w, "UpdateLocation", driver)
}

func (h *DriverHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driver, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeDriver(w, "GetByID", driver)
}

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter := model.DriverFilter{Status: r.URL.Query().Get("status")}
	if filter.IsVerified, err = httputil.ParseBoolParam(r, "is_verified"); err != nil {
		h.writeError(w, "List", err)
		return
	}
	if filter.IsAvailable, err = httputil.ParseBoolParam(r, "is_available"); err != nil {
		h.writeError(w, "List", err)
		return
	}

	drivers, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, drivers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *DriverHandler) Verify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driver, err := h.service.Verify(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Verify", err)
		return
	}
	h.writeDriver(w, "Verify", driver)
}

func (h *DriverHandler) Suspend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	driver, err := h.service.Suspend(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Suspend", err)
		return
	}
	h.writeDriver(w, "Suspend", driver)
}

func (h *DriverHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req statusRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	driver, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), req.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	h.writeDriver(w, "UpdateStatus", driver)
}

func (h *DriverHandler) RegisterRoutes(router *httprouter.Router) {
	admin := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRoleHandle(next, model.RoleAdmin)
	}
	driver := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRoleHandle(next, model.RoleDriver)
	}

	router.POST("/api/v1/drivers/register", h.Register)
	router.GET("/api/v1/drivers/me", driver(h.GetMine))
	router.PUT("/api/v1/drivers/me/availability", driver(h.UpdateAvailability))
	router.PUT("/api/v1/drivers/me/location", driver(h.UpdateLocation))

	router.GET("/api/v1/drivers", admin(h.List))
	router.GET("/api/v1/drivers/id/:id", admin(h.GetByID))
	router.PUT("/api/v1/drivers/id/:id/verify", admin(h.Verify))
	router.PUT("/api/v1/drivers/id/:id/suspend", admin(h.Suspend))
	router.PUT("/api/v1/drivers/id/:id/status", admin(h.UpdateStatus))
}
