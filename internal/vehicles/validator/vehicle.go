package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"ambulink/pkg/logger"
	"ambulink/pkg/model"

	"github.com/go-playground/validator/v10"
)

var vehicleStatuses = []string{
	model.VehicleStatusActive,
	model.VehicleStatusMaintenance,
	model.VehicleStatusOutOfService,
}

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

type VehicleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewVehicleValidator(log *logger.Logger) *VehicleValidator {
	v := validator.New()
	RegisterTags(v, log)

	log.Info("Vehicle validator initialized successfully")

	return &VehicleValidator{
		validate: v,
		logger:   log,
	}
}

// RegisterTags installs the vehicle_type and vehicle_feature tags on v. The
// driver registration validator shares them.
func RegisterTags(v *validator.Validate, log *logger.Logger) {
	if err := v.RegisterValidation("vehicle_type", validateType); err != nil {
		log.Fatal("Failed to register 'vehicle_type' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("vehicle_feature", validateFeature); err != nil {
		log.Fatal("Failed to register 'vehicle_feature' validator",
			"error", err,
		)
	}
}

func validateType(fl validator.FieldLevel) bool {
	return slices.Contains(model.VehicleTypes, fl.Field().String())
}

func validateFeature(fl validator.FieldLevel) bool {
	return slices.Contains(model.VehicleFeatures, fl.Field().String())
}

func ValidStatus(status string) bool {
	return slices.Contains(vehicleStatuses, status)
}

func (v *VehicleValidator) Validate(vehicle *model.Vehicle) error {
	return v.check(vehicle)
}

func (v *VehicleValidator) ValidateUpdate(update *model.VehicleUpdate) error {
	return v.check(update)
}

func (v *VehicleValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return TranslateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// TranslateValidationErrors renders validator errors with messages for the
// vehicle tags.
func TranslateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gte", "lte":
			message = fmt.Sprintf("%s is out of range", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "vehicle_type":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.VehicleTypes, ", "))
		case "vehicle_feature":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.VehicleFeatures, ", "))
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Namespace(),
			Message: message,
		})
	}

	return validationErrors
}
