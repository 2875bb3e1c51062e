package validator

import (
	"errors"
	"fmt"
	"strings"
	_ "time/tzdata"

	"ambulink/pkg/geo"
	"ambulink/pkg/logger"
	"ambulink/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type SettingsValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSettingsValidator(log *logger.Logger) *SettingsValidator {
	v := validator.New()
	v.RegisterStructValidation(validatePricing, model.PricingSettings{})
	if err := v.RegisterValidation("lnglat", validateLngLat); err != nil {
		log.Fatal("Failed to register 'lnglat' validator",
			"error", err,
		)
	}

	log.Info("Settings validator initialized successfully")

	return &SettingsValidator{
		validate: v,
		logger:   log,
	}
}

// validateLngLat checks fare request coordinates the way bookings do.
func validateLngLat(fl validator.FieldLevel) bool {
	coords, ok := fl.Field().Interface().([]float64)
	return ok && geo.ValidPair(coords)
}

// validatePricing rejects additional services that share a name.
func validatePricing(sl validator.StructLevel) {
	pricing := sl.Current().Interface().(model.PricingSettings)
	seen := make(map[string]struct{}, len(pricing.AdditionalServices))
	for _, s := range pricing.AdditionalServices {
		key := strings.ToLower(s.Name)
		if _, dup := seen[key]; dup {
			sl.ReportError(pricing.AdditionalServices, "AdditionalServices", "AdditionalServices", "unique_service", s.Name)
			return
		}
		seen[key] = struct{}{}
	}
}

// Validate checks any of the four settings structs or a fare quote request.
func (v *SettingsValidator) Validate(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must not be negative", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be an IANA timezone name", err.Field())
		case "hexcolor":
			message = fmt.Sprintf("%s must be a hex colour such as #1976D2", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "lnglat":
			message = fmt.Sprintf("%s must be [longitude, latitude] within range", err.Field())
		case "unique_service":
			message = fmt.Sprintf("additional service %q is listed more than once", err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Namespace(),
			Message: message,
		})
	}

	return validationErrors
}
