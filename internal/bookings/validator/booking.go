package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

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

// Details renders the errors for an AppError details payload.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("booking_requirement", validateRequirement); err != nil {
		log.Fatal("Failed to register 'booking_requirement' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("lnglat", validateLngLat); err != nil {
		log.Fatal("Failed to register 'lnglat' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateRequirement(fl validator.FieldLevel) bool {
	return slices.Contains(model.BookingRequirements, fl.Field().String())
}

// validateLngLat accepts a [longitude, latitude] pair within range.
func validateLngLat(fl validator.FieldLevel) bool {
	coords, ok := fl.Field().Interface().([]float64)
	return ok && geo.ValidPair(coords)
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if booking.BookingType != model.BookingTypeEmergency {
		if booking.DropLocation == nil || strings.TrimSpace(booking.DropLocation.Address) == "" {
			return ValidationErrors{
				ValidationError{
					Field:   "DropLocation",
					Message: "drop_location is required unless the booking is an emergency",
				},
			}
		}
	}

	if booking.Driver != "" && booking.Vehicle == "" || booking.Driver == "" && booking.Vehicle != "" {
		return ValidationErrors{
			ValidationError{
				Field:   "Vehicle",
				Message: "driver and vehicle must be assigned together",
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +919876543210)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "booking_requirement":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.BookingRequirements, ", "))
		case "lnglat":
			message = fmt.Sprintf("%s must be [longitude, latitude] within valid ranges", err.Field())
		case "gte", "lte":
			message = fmt.Sprintf("%s is out of range", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Namespace(),
			Message: message,
		})
	}

	return validationErrors
}
