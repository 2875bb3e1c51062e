package handler

import (
	"net/http"

	"ambulink/internal/settings/service"
	apperrors "ambulink/pkg/errors"
	httputil "ambulink/pkg/http"
	"ambulink/pkg/logger"
	"ambulink/pkg/middleware"
	"ambulink/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log,
	}
}

func (h *SettingsHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func unknownSection(section string) error {
	return apperrors.NotFoundWithID("Settings section", section)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var (
		value any
		err   error
	)

	switch section := ps.ByName("section"); section {
	case model.SettingsGeneral:
		value, err = h.service.GetGeneral(r.Context())
	case model.SettingsPricing:
		value, err = h.service.GetPricing(r.Context())
	case model.SettingsNotifications:
		value, err = h.service.GetNotifications(r.Context())
	case model.SettingsAppearance:
		value, err = h.service.GetAppearance(r.Context())
	default:
		err = unknownSection(section)
	}
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, value); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := httputil.CallerFromRequest(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var value any
	switch section := ps.ByName("section"); section {
	case model.SettingsGeneral:
		var s model.GeneralSettings
		if err = httputil.DecodeBody(r, &s); err == nil {
			value, err = h.service.UpdateGeneral(r.Context(), caller, &s)
		}
	case model.SettingsPricing:
		var s model.PricingSettings
		if err = httputil.DecodeBody(r, &s); err == nil {
			value, err = h.service.UpdatePricing(r.Context(), caller, &s)
		}
	case model.SettingsNotifications:
		var s model.NotificationSettings
		if err = httputil.DecodeBody(r, &s); err == nil {
			value, err = h.service.UpdateNotifications(r.Context(), caller, &s)
		}
	case model.SettingsAppearance:
		var s model.AppearanceSettings
		if err = httputil.DecodeBody(r, &s); err == nil {
			value, err = h.service.UpdateAppearance(r.Context(), caller, &s)
		}
	default:
		err = unknownSection(section)
	}
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, value); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.FareQuoteRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	quote, err := h.service.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) RegisterRoutes(router *httprouter.Router) {
	anyone := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRoleHandle(next, model.RoleUser, model.RoleDriver, model.RoleAdmin)
	}

	router.GET("/api/v1/settings/:section", anyone(h.Get))
	router.PUT("/api/v1/settings/:section", middleware.RequireRoleHandle(h.Update, model.RoleAdmin))
	router.POST("/api/v1/fares/quote", anyone(h.Quote))
}
