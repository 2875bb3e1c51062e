package service

import (
	"context"
	"errors"
	"time"

	"ambulink/internal/settings/fare"
	"ambulink/internal/settings/repository"
	"ambulink/internal/settings/validator"
	"ambulink/pkg/config"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/model"
	"ambulink/pkg/sanitizer"
)

type SettingsService interface {
	GetGeneral(ctx context.Context) (*model.GeneralSettings, error)
	GetPricing(ctx context.Context) (*model.PricingSettings, error)
	GetNotifications(ctx context.Context) (*model.NotificationSettings, error)
	GetAppearance(ctx context.Context) (*model.AppearanceSettings, error)

	UpdateGeneral(ctx context.Context, caller model.Caller, s *model.GeneralSettings) (*model.GeneralSettings, error)
	UpdatePricing(ctx context.Context, caller model.Caller, s *model.PricingSettings) (*model.PricingSettings, error)
	UpdateNotifications(ctx context.Context, caller model.Caller, s *model.NotificationSettings) (*model.NotificationSettings, error)
	UpdateAppearance(ctx context.Context, caller model.Caller, s *model.AppearanceSettings) (*model.AppearanceSettings, error)

	Quote(ctx context.Context, req model.FareQuoteRequest) (*model.FareQuote, error)
	// Timezone is the location day boundaries are computed in. It falls
	// back to UTC when the settings cannot be read.
	Timezone(ctx context.Context) *time.Location
}

type settingsService struct {
	repo      repository.SettingsRepository
	validator *validator.SettingsValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewSettingsService(repo repository.SettingsRepository, validator *validator.SettingsValidator, cfg *config.Config) SettingsService {
	return &settingsService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func load[T any](ctx context.Context, s *settingsService, section string, defaults func() T) (*T, error) {
	value := defaults()
	found, err := s.repo.Load(ctx, section, &value)
	if err != nil {
		s.cfg.Log.Error("Failed to load settings", "section", section, "error", err)
		return nil, apperrors.Internal("Failed to load settings", err)
	}
	if !found {
		value = defaults()
	}
	return &value, nil
}

func store[T any](ctx context.Context, s *settingsService, section string, caller model.Caller, value *T) (*T, error) {
	if value == nil {
		return nil, apperrors.InvalidInput("Settings payload is required")
	}
	if err := s.validator.Validate(value); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Settings validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("Settings validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Save(ctx, section, value, caller.UserID); err != nil {
		s.cfg.Log.Error("Failed to save settings", "section", section, "error", err)
		return nil, apperrors.Internal("Failed to save settings", err)
	}

	s.cfg.Log.Info("Settings updated", "section", section, "updated_by", caller.UserID)
	return value, nil
}

func (s *settingsService) GetGeneral(ctx context.Context) (*model.GeneralSettings, error) {
	return load(ctx, s, model.SettingsGeneral, model.DefaultGeneralSettings)
}

func (s *settingsService) GetPricing(ctx context.Context) (*model.PricingSettings, error) {
	return load(ctx, s, model.SettingsPricing, model.DefaultPricingSettings)
}

func (s *settingsService) GetNotifications(ctx context.Context) (*model.NotificationSettings, error) {
	return load(ctx, s, model.SettingsNotifications, model.DefaultNotificationSettings)
}

func (s *settingsService) GetAppearance(ctx context.Context) (*model.AppearanceSettings, error) {
	return load(ctx, s, model.SettingsAppearance, model.DefaultAppearanceSettings)
}

func (s *settingsService) UpdateGeneral(ctx context.Context, caller model.Caller, v *model.GeneralSettings) (*model.GeneralSettings, error) {
	if v != nil {
		v.AppName = sanitizer.SanitizeText(v.AppName)
		v.ContactEmail = sanitizer.SanitizeEmail(v.ContactEmail)
		v.ContactPhone = sanitizer.SanitizeText(v.ContactPhone)
		v.EmergencyNumber = sanitizer.SanitizeText(v.EmergencyNumber)
		v.Address = sanitizer.SanitizeText(v.Address)
		v.Timezone = sanitizer.SanitizeText(v.Timezone)
	}
	return store(ctx, s, model.SettingsGeneral, caller, v)
}

func (s *settingsService) UpdatePricing(ctx context.Context, caller model.Caller, v *model.PricingSettings) (*model.PricingSettings, error) {
	if v != nil {
		v.Currency = sanitizer.SanitizeIdentifier(v.Currency)
		for i := range v.AdditionalServices {
			v.AdditionalServices[i].Name = sanitizer.SanitizeText(v.AdditionalServices[i].Name)
		}
	}
	return store(ctx, s, model.SettingsPricing, caller, v)
}

func (s *settingsService) UpdateNotifications(ctx context.Context, caller model.Caller, v *model.NotificationSettings) (*model.NotificationSettings, error) {
	return store(ctx, s, model.SettingsNotifications, caller, v)
}

func (s *settingsService) UpdateAppearance(ctx context.Context, caller model.Caller, v *model.AppearanceSettings) (*model.AppearanceSettings, error) {
	if v != nil {
		v.LogoURL = sanitizer.SanitizeURL(v.LogoURL)
		v.FaviconURL = sanitizer.SanitizeURL(v.FaviconURL)
	}
	return store(ctx, s, model.SettingsAppearance, caller, v)
}

func (s *settingsService) Timezone(ctx context.Context) *time.Location {
	general, err := s.GetGeneral(ctx)
	if err != nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(general.Timezone)
	if err != nil {
		s.cfg.Log.Warn("Configured timezone is invalid, using UTC", "timezone", general.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

func (s *settingsService) Quote(ctx context.Context, req model.FareQuoteRequest) (*model.FareQuote, error) {
	if err := s.validator.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Fare request validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("Fare request validation failed", map[string]any{"error": err.Error()})
	}
	if req.At.IsZero() {
		req.At = s.now()
	}

	pricing, err := s.GetPricing(ctx)
	if err != nil {
		return nil, err
	}
	return fare.Calculate(*pricing, req, s.Timezone(ctx)), nil
}
