// Package directory resolves users, drivers and vehicles by id for the
// booking lifecycle.
package directory

import (
	"context"
	"errors"
	"fmt"

	driverserrors "ambulink/internal/drivers/errors"
	driversrepo "ambulink/internal/drivers/repository"
	userserrors "ambulink/internal/users/errors"
	usersrepo "ambulink/internal/users/repository"
	vehicleserrors "ambulink/internal/vehicles/errors"
	vehiclesrepo "ambulink/internal/vehicles/repository"
	"ambulink/pkg/model"
)

// ErrNotFound is wrapped by every lookup whose entity does not exist,
// including malformed ids.
var ErrNotFound = errors.New("entity not found")

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	SearchIDs(ctx context.Context, term string) ([]string, error)
}

type DriverFinder interface {
	FindByID(ctx context.Context, id string) (*model.Driver, error)
	FindByUser(ctx context.Context, userID string) (*model.Driver, error)
	IDsForUsers(ctx context.Context, userIDs []string) ([]string, error)
}

type VehicleFinder interface {
	FindByID(ctx context.Context, id string) (*model.Vehicle, error)
}

type Store struct {
	users    UserFinder
	drivers  DriverFinder
	vehicles VehicleFinder
}

func New(users UserFinder, drivers DriverFinder, vehicles VehicleFinder) *Store {
	return &Store{users: users, drivers: drivers, vehicles: vehicles}
}

// NewFromRepositories is the production wiring.
func NewFromRepositories(users usersrepo.UserRepository, drivers driversrepo.DriverRepository, vehicles vehiclesrepo.VehicleRepository) *Store {
	return New(users, drivers, vehicles)
}

func (s *Store) FindUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) FindDriver(ctx context.Context, id string) (*model.Driver, error) {
	driver, err := s.drivers.FindByID(ctx, id)
	return driver, driverLookupError(err, "driver "+id)
}

func (s *Store) FindDriverByUser(ctx context.Context, userID string) (*model.Driver, error) {
	driver, err := s.drivers.FindByUser(ctx, userID)
	return driver, driverLookupError(err, "driver for user "+userID)
}

func driverLookupError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driverserrors.ErrNotFound) || errors.Is(err, driverserrors.ErrInvalidID) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func (s *Store) FindVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) || errors.Is(err, vehicleserrors.ErrInvalidID) {
			return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *Store) SearchUserIDs(ctx context.Context, term string) ([]string, error) {
	return s.users.SearchIDs(ctx, term)
}

func (s *Store) DriverIDsForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	return s.drivers.IDsForUsers(ctx, userIDs)
}
