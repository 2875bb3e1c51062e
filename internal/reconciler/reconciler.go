// Package reconciler repairs driver availability from booking events.
//
// Booking writes and the driver availability write that follows them are
// not atomic when transactions are disabled. Lifecycle events re-check that
// a driver holding an active booking is unavailable. Releases happen only for
// driver.availability_drift, which the booking service publishes when its own
// release failed, and only while the driver is unchanged since that booking
// write. A driver who went off duty or was claimed again is left alone.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	driverserrors "ambulink/internal/drivers/errors"
	"ambulink/pkg/kafka"
	"ambulink/pkg/logger"
	"ambulink/pkg/model"
	"ambulink/pkg/observability"
)

const (
	ActionReleased = "released"
	ActionHeld     = "held"
	ActionNoop     = "noop"
	ActionSkipped  = "skipped"
)

type DriverLedger interface {
	FindByID(ctx context.Context, id string) (*model.Driver, error)
	SetAvailable(ctx context.Context, id string, available bool) error
	// Release makes a verified, active, unavailable driver available when it
	// was not modified after notAfter.
	Release(ctx context.Context, id string, notAfter time.Time) (bool, error)
}

type ActiveBookings interface {
	HasActiveForDriver(ctx context.Context, driverID, excludeBookingID string) (bool, error)
}

type Reconciler struct {
	drivers  DriverLedger
	bookings ActiveBookings
	log      *logger.Logger
}

func NewReconciler(drivers DriverLedger, bookings ActiveBookings, log *logger.Logger) *Reconciler {
	return &Reconciler{
		drivers:  drivers,
		bookings: bookings,
		log:      log,
	}
}

// Handle is a kafka.MessageHandler. Undecodable payloads and unknown driver
// ids are permanent failures; storage errors are retried by the consumer.
func (r *Reconciler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("undecodable booking event", err)
	}
	if event.Type == "" {
		event.Type = msg.GetEventType()
	}

	action, err := r.Reconcile(ctx, event)
	if err != nil {
		return err
	}
	observability.ReconciledDriversTotal.WithLabelValues(action).Inc()
	return nil
}

// Reconcile brings the event's driver in line with the bookings it holds and
// reports the action taken.
func (r *Reconciler) Reconcile(ctx context.Context, event model.BookingEvent) (string, error) {
	if event.DriverID == "" {
		return ActionSkipped, nil
	}

	var exclude string
	release := false
	switch event.Type {
	case model.EventAvailabilityDrift:
		if !event.ReleasesDriver() {
			return ActionSkipped, nil
		}
		exclude = event.BookingID
		release = true
	case model.EventBookingCompleted, model.EventBookingCancelled:
		// The booking service released the driver itself or published drift.
		exclude = event.BookingID
	case model.EventBookingCreated, model.EventBookingConfirmed, model.EventBookingStarted:
		// A replayed confirmation must not hold a driver whose booking has
		// since finished, so the hold is decided from current state as well.
	default:
		return ActionSkipped, nil
	}

	driver, err := r.drivers.FindByID(ctx, event.DriverID)
	if err != nil {
		if errors.Is(err, driverserrors.ErrNotFound) || errors.Is(err, driverserrors.ErrInvalidID) {
			return "", kafka.NewPermanentError("unknown driver "+event.DriverID, err)
		}
		return "", fmt.Errorf("failed to load driver %s: %w", event.DriverID, err)
	}

	active, err := r.bookings.HasActiveForDriver(ctx, event.DriverID, exclude)
	if err != nil {
		return "", fmt.Errorf("failed to check active bookings for driver %s: %w", event.DriverID, err)
	}

	log := r.log.With("driver_id", driver.ID, "booking_id", event.BookingID, "event_type", event.Type)
	switch {
	case active && driver.IsAvailable:
		if err := r.drivers.SetAvailable(ctx, driver.ID, false); err != nil {
			return "", fmt.Errorf("failed to hold driver %s: %w", driver.ID, err)
		}
		log.Warn("Driver held by reconciler")
		return ActionHeld, nil

	case !active && !driver.IsAvailable && release:
		// Suspended or unverified drivers stay unavailable.
		if !driver.IsVerified || driver.Status != model.DriverStatusActive {
			return ActionNoop, nil
		}
		if event.OccurredAt.IsZero() {
			log.Warn("Drift event without a timestamp, release skipped")
			return ActionNoop, nil
		}
		released, err := r.drivers.Release(ctx, driver.ID, event.OccurredAt)
		if err != nil {
			return "", fmt.Errorf("failed to release driver %s: %w", driver.ID, err)
		}
		if !released {
			log.Info("Driver changed since the drift event, release skipped")
			return ActionNoop, nil
		}
		log.Info("Driver released by reconciler")
		return ActionReleased, nil
	}

	return ActionNoop, nil
}
