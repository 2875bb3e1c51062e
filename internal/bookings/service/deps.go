package service

import (
	"context"
	"time"

	"ambulink/pkg/model"
)

// Directory resolves the entities a booking references. Missing entities are
// reported with an error wrapping directory.ErrNotFound.
type Directory interface {
	FindUser(ctx context.Context, id string) (*model.User, error)
	FindDriver(ctx context.Context, id string) (*model.Driver, error)
	FindDriverByUser(ctx context.Context, userID string) (*model.Driver, error)
	FindVehicle(ctx context.Context, id string) (*model.Vehicle, error)
	SearchUserIDs(ctx context.Context, term string) ([]string, error)
	DriverIDsForUsers(ctx context.Context, userIDs []string) ([]string, error)
}

// AvailabilityLedger owns the per-driver availability flag.
type AvailabilityLedger interface {
	// Claim flips an eligible, available driver to unavailable. It reports
	// false when another booking got there first.
	Claim(ctx context.Context, driverID string) (bool, error)
	// Release returns a verified, active driver to the pool. It reports false
	// for suspended, inactive or unverified drivers, which stay unavailable.
	Release(ctx context.Context, driverID string, notAfter time.Time) (bool, error)
	// RecordRating stores the driver's recomputed rating and counts the trip.
	RecordRating(ctx context.Context, driverID string, rating float64) error
}

type DriverLocator interface {
	// FindEligibleNear returns eligible drivers nearest-first within radius.
	FindEligibleNear(ctx context.Context, lng, lat float64, radiusMeters, limit int) ([]*model.Driver, error)
	// FindEligible returns eligible drivers in storage order; limit 0 means all.
	FindEligible(ctx context.Context, limit int) ([]*model.Driver, error)
}

type Pricer interface {
	Quote(ctx context.Context, req model.FareQuoteRequest) (*model.FareQuote, error)
	Timezone(ctx context.Context) *time.Location
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

type Dependencies struct {
	Directory Directory
	Ledger    AvailabilityLedger
	Locator   DriverLocator
	Pricer    Pricer
	Events    EventPublisher
}
