package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	vehicleserrors "ambulink/internal/vehicles/errors"
	"ambulink/internal/vehicles/repository"
	"ambulink/internal/vehicles/validator"
	"ambulink/pkg/config"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/model"
	"ambulink/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

// DriverReferences reports whether any driver profile points at a vehicle.
type DriverReferences interface {
	ExistsByVehicle(ctx context.Context, vehicleID string) (bool, error)
}

type VehicleService interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	List(ctx context.Context, filter model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, int64, error)
	Update(ctx context.Context, id string, update *model.VehicleUpdate) (*model.Vehicle, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	repo      repository.VehicleRepository
	drivers   DriverReferences
	validator *validator.VehicleValidator
	cfg       *config.Config
}

func NewVehicleService(
	repo repository.VehicleRepository,
	drivers DriverReferences,
	validator *validator.VehicleValidator,
	cfg *config.Config,
) VehicleService {
	return &vehicleService{
		repo:      repo,
		drivers:   drivers,
		validator: validator,
		cfg:       cfg,
	}
}

// Sanitize normalises client-supplied vehicle fields in place.
func Sanitize(v *model.Vehicle) {
	v.RegistrationNumber = sanitizer.SanitizeIdentifier(v.RegistrationNumber)
	v.Type = sanitizer.SanitizeText(v.Type)
	v.Model = sanitizer.SanitizeText(v.Model)
	v.Manufacturer = sanitizer.SanitizeText(v.Manufacturer)
	v.Features = sanitizer.SanitizeSlice(v.Features, sanitizer.SanitizeText)
	v.Image = sanitizer.SanitizeURL(v.Image)
	if v.Status == "" {
		v.Status = model.VehicleStatusActive
	}
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle) error {
	vehicle.ID = ""
	Sanitize(vehicle)

	if err := s.validator.Validate(vehicle); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed",
			"registration_number", vehicle.RegistrationNumber,
			"error", err,
		)
		return validationError(err)
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, vehicleserrors.ErrDuplicateRegistration) {
			return apperrors.Conflict("a vehicle with this registration number already exists")
		}
		s.cfg.Log.Error("Failed to create vehicle", "registration_number", vehicle.RegistrationNumber, "error", err)
		return apperrors.Internal("Failed to create vehicle", err)
	}

	s.cfg.Log.Info("Vehicle created successfully",
		"id", vehicle.ID,
		"registration_number", vehicle.RegistrationNumber,
		"type", vehicle.Type,
	)
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Vehicle validation failed", verrs.Details())
	}
	return apperrors.Validation("Vehicle validation failed", map[string]any{"error": err.Error()})
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError(err, id, "Failed to retrieve vehicle")
	}
	return vehicle, nil
}

func (s *vehicleService) repoError(err error, id, message string) error {
	switch {
	case errors.Is(err, vehicleserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Vehicle", id)
	case errors.Is(err, vehicleserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid vehicle ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *vehicleService) List(ctx context.Context, filter model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, int64, error) {
	var count int64
	var vehicles []*model.Vehicle
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		vehicles, errFind = s.repo.Find(ctx, filter, limit, offset)
	}()

	wg.Wait()
	if errCount != nil {
		s.cfg.Log.Error("Failed to count vehicles", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count vehicles", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list vehicles", "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve vehicles", errFind)
	}

	return vehicles, count, nil
}

func (s *vehicleService) Update(ctx context.Context, id string, update *model.VehicleUpdate) (*model.Vehicle, error) {
	if update == nil {
		return nil, apperrors.InvalidInput("Update payload is required")
	}

	update.Model = sanitizer.SanitizeText(update.Model)
	update.Manufacturer = sanitizer.SanitizeText(update.Manufacturer)
	update.Type = sanitizer.SanitizeText(update.Type)
	if update.Features != nil {
		features := sanitizer.SanitizeSlice(*update.Features, sanitizer.SanitizeText)
		update.Features = &features
	}
	if update.Image != nil {
		image := sanitizer.SanitizeURL(*update.Image)
		update.Image = &image
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, validationError(err)
	}

	fields := updateFields(update)
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	vehicle, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, s.repoError(err, id, "Failed to update vehicle")
	}

	s.cfg.Log.Info("Vehicle updated successfully", "id", id)
	return vehicle, nil
}

func updateFields(u *model.VehicleUpdate) bson.M {
	fields := bson.M{}
	if u.Model != "" {
		fields["model"] = u.Model
	}
	if u.Manufacturer != "" {
		fields["manufacturer"] = u.Manufacturer
	}
	if u.Type != "" {
		fields["type"] = u.Type
	}
	if u.Year != nil {
		fields["year"] = *u.Year
	}
	if u.Capacity != nil {
		fields["capacity"] = *u.Capacity
	}
	if u.Features != nil {
		fields["features"] = *u.Features
	}
	if u.LastMaintenance != nil {
		fields["last_maintenance"] = *u.LastMaintenance
	}
	if u.NextMaintenance != nil {
		fields["next_maintenance"] = *u.NextMaintenance
	}
	if u.InsuranceExpiry != nil {
		fields["insurance_expiry"] = *u.InsuranceExpiry
	}
	if u.Image != nil {
		fields["image"] = *u.Image
	}
	return fields
}

func (s *vehicleService) UpdateStatus(ctx context.Context, id, status string) (*model.Vehicle, error) {
	status = strings.TrimSpace(status)
	if !validator.ValidStatus(status) {
		return nil, apperrors.InvalidInput("status must be one of: active, maintenance, out-of-service")
	}

	vehicle, err := s.repo.Update(ctx, id, bson.M{"status": status})
	if err != nil {
		return nil, s.repoError(err, id, "Failed to update vehicle status")
	}

	s.cfg.Log.Info("Vehicle status updated", "id", id, "status", status)
	return vehicle, nil
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	referenced, err := s.drivers.ExistsByVehicle(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to check vehicle references", "id", id, "error", err)
		return apperrors.Internal("Failed to delete vehicle", err)
	}
	if referenced {
		return apperrors.Conflict("vehicle is assigned to a driver")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.repoError(err, id, "Failed to delete vehicle")
	}

	s.cfg.Log.Info("Vehicle deleted successfully", "id", id)
	return nil
}
