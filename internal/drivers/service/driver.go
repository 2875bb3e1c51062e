package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	driverserrors "ambulink/internal/drivers/errors"
	"ambulink/internal/drivers/repository"
	"ambulink/internal/drivers/validator"
	vehicleserrors "ambulink/internal/vehicles/errors"
	vehiclesservice "ambulink/internal/vehicles/service"
	"ambulink/pkg/config"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/model"
	"ambulink/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

// VehicleStore persists the vehicle submitted with a registration.
type VehicleStore interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	Delete(ctx context.Context, id string) error
}

type RoleUpdater interface {
	UpdateRole(ctx context.Context, userID, role string) error
}

// ActiveBookings reports whether a driver is bound to a confirmed or
// in-progress booking.
type ActiveBookings interface {
	HasActiveForDriver(ctx context.Context, driverID, excludeBookingID string) (bool, error)
}

type DriverService interface {
	Register(ctx context.Context, caller model.Caller, reg *model.DriverRegistration) (*model.Driver, error)
	GetByID(ctx context.Context, id string) (*model.Driver, error)
	GetMine(ctx context.Context, caller model.Caller) (*model.Driver, error)
	List(ctx context.Context, filter model.DriverFilter, limit int, offset int64) ([]*model.Driver, int64, error)

	UpdateAvailability(ctx context.Context, caller model.Caller, available bool) (*model.Driver, error)
	UpdateLocation(ctx context.Context, caller model.Caller, lng, lat float64) (*model.Driver, error)

	Verify(ctx context.Context, id string) (*model.Driver, error)
	Suspend(ctx context.Context, id string) (*model.Driver, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Driver, error)
}

type driverService struct {
	repo      repository.DriverRepository
	vehicles  VehicleStore
	users     RoleUpdater
	bookings  ActiveBookings
	validator *validator.DriverValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewDriverService(
	repo repository.DriverRepository,
	vehicles VehicleStore,
	users RoleUpdater,
	bookings ActiveBookings,
	validator *validator.DriverValidator,
	cfg *config.Config,
) DriverService {
	return &driverService{
		repo:      repo,
		vehicles:  vehicles,
		users:     users,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Driver validation failed", verrs.Details())
	}
	return apperrors.Validation("Driver validation failed", map[string]any{"error": err.Error()})
}

func (s *driverService) repoError(err error, id, message string) error {
	switch {
	case errors.Is(err, driverserrors.ErrNotFound):
		if id == "" {
			return apperrors.NotFound("Driver profile")
		}
		return apperrors.NotFoundWithID("Driver", id)
	case errors.Is(err, driverserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid driver ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

// Register creates the caller's vehicle and a pending driver profile, then
// promotes the caller to the driver role. Without transactions a failed
// profile insert deletes the vehicle again.
func (s *driverService) Register(ctx context.Context, caller model.Caller, reg *model.DriverRegistration) (*model.Driver, error) {
	if reg == nil {
		return nil, apperrors.InvalidInput("Registration payload is required")
	}

	_, err := s.repo.FindByUser(ctx, caller.UserID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("driver profile already exists")
	case !errors.Is(err, driverserrors.ErrNotFound):
		return nil, s.repoError(err, "", "Failed to check existing driver profile")
	}

	reg.LicenseNumber = sanitizer.SanitizeIdentifier(reg.LicenseNumber)
	reg.Vehicle.ID = ""
	vehiclesservice.Sanitize(&reg.Vehicle)

	if err := s.validator.ValidateRegistration(reg, s.now()); err != nil {
		s.cfg.Log.Warn("Driver registration validation failed",
			"user", caller.UserID,
			"error", err,
		)
		return nil, validationError(err)
	}

	var driver *model.Driver
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		vehicle := reg.Vehicle
		vehicle.ID = ""
		if err := s.vehicles.Create(txCtx, &vehicle); err != nil {
			return err
		}

		driver = &model.Driver{
			User:          caller.UserID,
			LicenseNumber: reg.LicenseNumber,
			LicenseExpiry: reg.LicenseExpiry.UTC(),
			Vehicle:       vehicle.ID,
			Status:        model.DriverStatusPending,
		}
		if err := s.repo.Create(txCtx, driver); err != nil {
			if !s.cfg.UseTransactions {
				if delErr := s.vehicles.Delete(ctx, vehicle.ID); delErr != nil {
					s.cfg.Log.Error("Failed to remove vehicle after driver insert failed",
						"vehicle", vehicle.ID,
						"error", delErr,
					)
				}
			}
			return err
		}

		if caller.IsAdmin() {
			return nil
		}
		if err := s.users.UpdateRole(txCtx, caller.UserID, model.RoleDriver); err != nil {
			if s.cfg.UseTransactions {
				return err
			}
			s.cfg.Log.Error("Driver registered but role promotion failed",
				"user", caller.UserID,
				"driver", driver.ID,
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, driverserrors.ErrDuplicateLicense):
			return nil, apperrors.Conflict("a driver with this license number already exists")
		case errors.Is(err, driverserrors.ErrAlreadyRegistered):
			return nil, apperrors.Conflict("driver profile already exists")
		case errors.Is(err, vehicleserrors.ErrDuplicateRegistration):
			return nil, apperrors.Conflict("a vehicle with this registration number already exists")
		}
		s.cfg.Log.Error("Failed to register driver", "user", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to register driver", err)
	}

	s.cfg.Log.Info("Driver registered",
		"id", driver.ID,
		"user", driver.User,
		"vehicle", driver.Vehicle,
	)
	return driver, nil
}

func (s *driverService) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Driver ID cannot be empty")
	}
	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.repoError(err, id, "Failed to retrieve driver")
	}
	return driver, nil
}

func (s *driverService) GetMine(ctx context.Context, caller model.Caller) (*model.Driver, error) {
	driver, err := s.repo.FindByUser(ctx, caller.UserID)
	if err != nil {
		return nil, s.repoError(err, "", "Failed to retrieve driver profile")
	}
	return driver, nil
}

func (s *driverService) List(ctx context.Context, filter model.DriverFilter, limit int, offset int64) ([]*model.Driver, int64, error) {
	var count int64
	var drivers []*model.Driver
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		drivers, errFind = s.repo.Find(ctx, filter, limit, offset)
	}()

	wg.Wait()
	if errCount != nil {
		s.cfg.Log.Error("Failed to count drivers", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count drivers", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list drivers", "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve drivers", errFind)
	}

	return drivers, count, nil
}

// UpdateAvailability lets a verified, active driver go on or off duty. Going
// on duty is refused while a booking still holds the driver.
func (s *driverService) UpdateAvailability(ctx context.Context, caller model.Caller, available bool) (*model.Driver, error) {
	driver, err := s.GetMine(ctx, caller)
	if err != nil {
		return nil, err
	}

	if !driver.IsVerified || driver.Status != model.DriverStatusActive {
		return nil, apperrors.Forbidden("driver must be verified and active to change availability")
	}

	if available {
		busy, err := s.bookings.HasActiveForDriver(ctx, driver.ID, "")
		if err != nil {
			s.cfg.Log.Error("Failed to check active bookings", "driver", driver.ID, "error", err)
			return nil, apperrors.Internal("Failed to update availability", err)
		}
		if busy {
			return nil, apperrors.InvalidTransition("driver has an active booking")
		}
	}

	updated, err := s.repo.Update(ctx, driver.ID, bson.M{"is_available": available})
	if err != nil {
		return nil, s.repoError(err, driver.ID, "Failed to update availability")
	}

	s.cfg.Log.Info("Driver availability updated", "id", driver.ID, "is_available", available)
	return updated, nil
}

func (s *driverService) UpdateLocation(ctx context.Context, caller model.Caller, lng, lat float64) (*model.Driver, error) {
	if err := s.validator.ValidateLocation(lng, lat); err != nil {
		return nil, validationError(err)
	}

	driver, err := s.GetMine(ctx, caller)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, driver.ID, bson.M{"current_location": model.NewGeoPoint(lng, lat)})
	if err != nil {
		return nil, s.repoError(err, driver.ID, "Failed to update location")
	}
	return updated, nil
}

func (s *driverService) Verify(ctx context.Context, id string) (*model.Driver, error) {
	driver, err := s.repo.Update(ctx, id, bson.M{
		"is_verified": true,
		"status":      model.DriverStatusActive,
	})
	if err != nil {
		return nil, s.repoError(err, id, "Failed to verify driver")
	}

	s.cfg.Log.Info("Driver verified", "id", id)
	return driver, nil
}

func (s *driverService) Suspend(ctx context.Context, id string) (*model.Driver, error) {
	return s.UpdateStatus(ctx, id, model.DriverStatusSuspended)
}

// UpdateStatus sets the administrative status. Suspended and inactive drivers
// are taken off duty in the same write.
func (s *driverService) UpdateStatus(ctx context.Context, id, status string) (*model.Driver, error) {
	status = strings.TrimSpace(status)
	if !validator.ValidStatus(status) {
		return nil, apperrors.InvalidInput("status must be one of: active, inactive, suspended, pending")
	}

	fields := bson.M{"status": status}
	if status == model.DriverStatusSuspended || status == model.DriverStatusInactive {
		fields["is_available"] = false
	}

	driver, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, s.repoError(err, id, "Failed to update driver status")
	}

	s.cfg.Log.Info("Driver status updated", "id", id, "status", status)
	return driver, nil
}
