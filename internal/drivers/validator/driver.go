package validator

import (
	"errors"
	"fmt"
	"slices"
	"time"

	vehiclesvalidator "ambulink/internal/vehicles/validator"
	"ambulink/pkg/geo"
	"ambulink/pkg/logger"
	"ambulink/pkg/model"

	"github.com/go-playground/validator/v10"
)

var driverStatuses = []string{
	model.DriverStatusActive,
	model.DriverStatusInactive,
	model.DriverStatusSuspended,
	model.DriverStatusPending,
}

// Errors are reported in the vehicles package format so a registration
// carrying a nested vehicle produces a single flat details map.
type (
	ValidationError  = vehiclesvalidator.ValidationError
	ValidationErrors = vehiclesvalidator.ValidationErrors
)

type DriverValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDriverValidator(log *logger.Logger) *DriverValidator {
	v := validator.New()
	vehiclesvalidator.RegisterTags(v, log)

	log.Info("Driver validator initialized successfully")

	return &DriverValidator{
		validate: v,
		logger:   log,
	}
}

func ValidStatus(status string) bool {
	return slices.Contains(driverStatuses, status)
}

// ValidateRegistration checks the application and its vehicle. The licence
// must not have expired at now.
func (v *DriverValidator) ValidateRegistration(reg *model.DriverRegistration, now time.Time) error {
	var errs ValidationErrors

	if err := v.validate.Struct(reg); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		errs = append(errs, vehiclesvalidator.TranslateValidationErrors(validationErrs)...)
	}

	if !reg.LicenseExpiry.IsZero() && !reg.LicenseExpiry.After(now) {
		errs = append(errs, ValidationError{
			Field:   "DriverRegistration.LicenseExpiry",
			Message: "LicenseExpiry must be in the future",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *DriverValidator) ValidateLocation(lng, lat float64) error {
	var errs ValidationErrors
	if !geo.ValidLongitude(lng) {
		errs = append(errs, ValidationError{
			Field:   "longitude",
			Message: fmt.Sprintf("longitude %v is out of range [-180, 180]", lng),
		})
	}
	if !geo.ValidLatitude(lat) {
		errs = append(errs, ValidationError{
			Field:   "latitude",
			Message: fmt.Sprintf("latitude %v is out of range [-90, 90]", lat),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
