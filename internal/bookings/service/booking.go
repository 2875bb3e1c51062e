package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	bookingserrors "ambulink/internal/bookings/errors"
	"ambulink/internal/bookings/lifecycle"
	"ambulink/internal/bookings/repository"
	"ambulink/internal/bookings/validator"
	"ambulink/internal/directory"
	"ambulink/pkg/config"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/geo"
	"ambulink/pkg/locale"
	"ambulink/pkg/model"
	"ambulink/pkg/observability"
	"ambulink/pkg/sanitizer"
)

const (
	assignModeManual = "manual"
	assignModeAuto   = "auto"

	maxCommentLength = 500
)

type BookingService interface {
	CreateBooking(ctx context.Context, caller model.Caller, booking *model.Booking, driverID string) (*model.Booking, error)
	AssignDriver(ctx context.Context, bookingID, driverID string, caller model.Caller) (*model.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, status string, caller model.Caller, reason string) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID, reason string, caller model.Caller) (*model.Booking, error)
	RateBooking(ctx context.Context, bookingID string, rating int, comment string, caller model.Caller) (*model.Booking, error)
	ListAvailableDrivers(ctx context.Context) ([]*model.Driver, error)

	GetByID(ctx context.Context, id string, caller model.Caller) (*BookingView, error)
	List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	ListForRequester(ctx context.Context, caller model.Caller, limit int, offset int64) ([]*model.Booking, int64, error)
	ListActive(ctx context.Context, caller model.Caller) ([]*model.Booking, error)
	ListForDriver(ctx context.Context, caller model.Caller, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error)
	Stats(ctx context.Context) (*BookingStats, error)
	DriverStats(ctx context.Context, caller model.Caller) (*DriverStats, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	deps      Dependencies
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	deps Dependencies,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		deps:      deps,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, caller model.Caller, booking *model.Booking, driverID string) (*model.Booking, error) {
	if booking == nil {
		return nil, apperrors.InvalidInput("Booking payload is required")
	}
	driverID = strings.TrimSpace(driverID)

	if caller.IsAdmin() {
		if booking.User == "" {
			booking.User = caller.UserID
		}
	} else {
		if driverID != "" {
			return nil, apperrors.Forbidden("only admins can assign a driver when creating a booking")
		}
		booking.User = caller.UserID
	}

	s.resetServerFields(booking)
	s.sanitize(booking, locale.DetectRegion(s.deps.Pricer.Timezone(ctx).String()))
	s.applyDefaults(booking)
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	if _, err := s.deps.Directory.FindUser(ctx, booking.User); err != nil {
		return nil, s.lookupError(err, "User", booking.User)
	}

	if err := s.price(ctx, booking); err != nil {
		return nil, err
	}

	var driver *model.Driver
	mode := ""
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		driver = nil
		booking.Driver, booking.Vehicle = "", ""
		booking.Status = model.BookingStatusPending
		var err error
		switch {
		case driverID != "":
			mode = assignModeManual
			driver, err = s.claimDriver(txCtx, driverID)
		case booking.BookingType == model.BookingTypeEmergency:
			mode = assignModeAuto
			driver, err = s.autoAssign(txCtx, booking)
		}
		if err != nil {
			return err
		}

		if driver != nil {
			booking.Driver = driver.ID
			booking.Vehicle = driver.Vehicle
			booking.Status = model.BookingStatusConfirmed
		}

		if err := s.repo.Create(txCtx, booking); err != nil {
			if driver != nil && !s.cfg.UseTransactions {
				s.releaseAfterFailure(ctx, driver.ID, "create")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if mode != "" {
			observability.AssignmentsTotal.WithLabelValues(mode, "failed").Inc()
		}
		s.cfg.Log.Error("Failed to create booking", "user", booking.User, "driver_id", driverID, "error", err)
		return nil, err
	}

	switch {
	case driver != nil:
		observability.AssignmentsTotal.WithLabelValues(mode, "assigned").Inc()
	case mode == assignModeAuto:
		observability.AssignmentsTotal.WithLabelValues(mode, "unmatched").Inc()
	}
	observability.BookingTransitionsTotal.WithLabelValues("", booking.Status).Inc()

	eventType := model.EventBookingCreated
	if booking.Status == model.BookingStatusConfirmed {
		eventType = model.EventBookingConfirmed
	}
	s.publish(ctx, model.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		DriverID:  booking.Driver,
		Status:    booking.Status,
	})

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user", booking.User,
		"booking_type", booking.BookingType,
		"status", booking.Status,
		"driver_id", booking.Driver,
	)
	return booking, nil
}

func (s *bookingService) AssignDriver(ctx context.Context, bookingID, driverID string, caller model.Caller) (*model.Booking, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can assign drivers")
	}
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, apperrors.InvalidInput("Driver ID is required")
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusPending {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot assign driver to a booking with status: %s", booking.Status))
	}
	if booking.HasDriver() {
		return nil, apperrors.InvalidTransition("booking already has a driver")
	}

	var updated *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		driver, err := s.claimDriver(txCtx, driverID)
		if err != nil {
			return err
		}

		updated, err = s.repo.AssignDriver(txCtx, booking.ID, driver.ID, driver.Vehicle, s.now())
		if err != nil {
			if !s.cfg.UseTransactions {
				s.releaseAfterFailure(ctx, driver.ID, "assign")
			}
			return err
		}
		return nil
	})
	if err != nil {
		observability.AssignmentsTotal.WithLabelValues(assignModeManual, "failed").Inc()
		return nil, s.writeError(err, "Failed to assign driver")
	}

	observability.AssignmentsTotal.WithLabelValues(assignModeManual, "assigned").Inc()
	observability.BookingTransitionsTotal.WithLabelValues(model.BookingStatusPending, model.BookingStatusConfirmed).Inc()
	s.publish(ctx, model.BookingEvent{
		Type:           model.EventBookingConfirmed,
		BookingID:      updated.ID,
		DriverID:       updated.Driver,
		Status:         updated.Status,
		PreviousStatus: model.BookingStatusPending,
	})

	s.cfg.Log.Info("Driver assigned to booking",
		"booking_id", updated.ID,
		"driver_id", updated.Driver,
		"vehicle_id", updated.Vehicle,
	)
	return updated, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID, status string, caller model.Caller, reason string) (*model.Booking, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperrors.InvalidInput("Status is required")
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, booking); err != nil {
		return nil, err
	}
	if err := lifecycle.CheckTransition(booking.Status, status); err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, status, lifecycle.CancelInfo{
		Reason: sanitizer.SanitizeText(reason),
		By:     lifecycle.CancelledBy(caller, booking),
	})
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, reason string, caller model.Caller) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, booking); err != nil {
		return nil, err
	}
	if !lifecycle.CanCancel(booking.Status) {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot cancel a booking with status: %s", booking.Status))
	}

	return s.transition(ctx, booking, model.BookingStatusCancelled, lifecycle.CancelInfo{
		Reason: sanitizer.SanitizeText(reason),
		By:     lifecycle.CancelledBy(caller, booking),
	})
}

// transition writes the status change conditionally on the status that was
// read, then releases the driver when the booking becomes terminal. Without
// transactions a failed release is kept as divergence for the reconciler.
func (s *bookingService) transition(ctx context.Context, booking *model.Booking, to string, cancel lifecycle.CancelInfo) (*model.Booking, error) {
	from := booking.Status
	update := lifecycle.Apply(booking, to, s.now(), cancel)

	var updated *model.Booking
	diverged, released := false, false
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		diverged, released = false, false
		var err error
		updated, err = s.repo.Transition(txCtx, booking.ID, from, update)
		if err != nil {
			return err
		}

		if lifecycle.ReleasesDriver(to) && updated.HasDriver() {
			released, err = s.deps.Ledger.Release(txCtx, updated.Driver, time.Time{})
			if err != nil {
				if s.cfg.UseTransactions {
					return fmt.Errorf("failed to release driver %s: %w", updated.Driver, err)
				}
				diverged = true
				s.recordDivergence(updated.ID, updated.Driver, to, err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status",
			"booking_id", booking.ID,
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, s.writeError(err, "Failed to update booking status")
	}

	observability.BookingTransitionsTotal.WithLabelValues(from, to).Inc()
	s.publish(ctx, model.BookingEvent{
		Type:           lifecycle.EventType(to),
		BookingID:      updated.ID,
		DriverID:       updated.Driver,
		Status:         updated.Status,
		PreviousStatus: from,
	})
	if diverged {
		// Stamped with the booking write so the reconciler leaves alone any
		// driver modified after it.
		s.publish(ctx, model.BookingEvent{
			Type:           model.EventAvailabilityDrift,
			BookingID:      updated.ID,
			DriverID:       updated.Driver,
			Status:         updated.Status,
			PreviousStatus: from,
			OccurredAt:     updated.UpdatedAt,
		})
	} else if lifecycle.ReleasesDriver(to) && updated.HasDriver() && !released {
		s.cfg.Log.Info("Driver kept unavailable after booking ended",
			"booking_id", updated.ID,
			"driver_id", updated.Driver,
			"status", to,
		)
	}

	s.cfg.Log.Info("Booking status updated",
		"booking_id", updated.ID,
		"from", from,
		"to", to,
		"driver_id", updated.Driver,
	)
	return updated, nil
}

func (s *bookingService) RateBooking(ctx context.Context, bookingID string, rating int, comment string, caller model.Caller) (*model.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	comment = sanitizer.SanitizeText(comment)
	if len(comment) > maxCommentLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, booking); err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusCompleted {
		return nil, apperrors.InvalidTransition("only completed bookings can be rated")
	}
	if booking.IsRated() {
		return nil, apperrors.InvalidTransition("booking already rated")
	}

	var updated *model.Booking
	var driverRating float64
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.SetRating(txCtx, booking.ID, model.Rating{
			Value:     rating,
			Comment:   comment,
			CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		})
		if err != nil {
			return err
		}
		if !updated.HasDriver() {
			return nil
		}

		if err := s.refreshDriverRating(txCtx, updated.Driver, &driverRating); err != nil {
			if s.cfg.UseTransactions {
				return err
			}
			s.cfg.Log.Error("Rating stored but driver rating not refreshed",
				"booking_id", updated.ID,
				"driver_id", updated.Driver,
				"error", err,
			)
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "Failed to rate booking")
	}

	s.publish(ctx, model.BookingEvent{
		Type:      model.EventBookingRated,
		BookingID: updated.ID,
		DriverID:  updated.Driver,
		Status:    updated.Status,
	})

	s.cfg.Log.Info("Booking rated",
		"booking_id", updated.ID,
		"rating", rating,
		"driver_id", updated.Driver,
		"driver_rating", driverRating,
	)
	return updated, nil
}

// refreshDriverRating recomputes the driver's mean over all rated, completed
// bookings to one decimal and counts the trip.
func (s *bookingService) refreshDriverRating(ctx context.Context, driverID string, out *float64) error {
	average, _, err := s.repo.AverageRatingForDriver(ctx, driverID)
	if err != nil {
		return fmt.Errorf("failed to average driver rating: %w", err)
	}
	*out = geo.RoundTo(average, 1)
	if err := s.deps.Ledger.RecordRating(ctx, driverID, *out); err != nil {
		return fmt.Errorf("failed to record driver rating: %w", err)
	}
	return nil
}

func (s *bookingService) ListAvailableDrivers(ctx context.Context) ([]*model.Driver, error) {
	drivers, err := s.deps.Locator.FindEligible(ctx, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list available drivers", "error", err)
		return nil, apperrors.Internal("Failed to retrieve available drivers", err)
	}
	return drivers, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	q := repository.Query{
		BookingType: filter.BookingType,
		From:        filter.FromDate,
	}
	if filter.Status != "" {
		q.Statuses = []string{filter.Status}
	}
	if filter.ToDate != nil {
		end := repository.EndOfDay(*filter.ToDate)
		q.To = &end
	}

	if term := sanitizer.SanitizeText(filter.Search); term != "" {
		search, err := s.resolveSearch(ctx, term)
		if err != nil {
			return nil, 0, err
		}
		q.Search = search
	}

	return s.findAndCount(ctx, q, limit, offset)
}

// resolveSearch collects requester ids matching term and the drivers those
// users own.
func (s *bookingService) resolveSearch(ctx context.Context, term string) (*repository.Search, error) {
	userIDs, err := s.deps.Directory.SearchUserIDs(ctx, term)
	if err != nil {
		return nil, apperrors.Internal("Failed to search users", err)
	}
	var driverIDs []string
	if len(userIDs) > 0 {
		driverIDs, err = s.deps.Directory.DriverIDsForUsers(ctx, userIDs)
		if err != nil {
			return nil, apperrors.Internal("Failed to search drivers", err)
		}
	}
	return &repository.Search{Term: term, UserIDs: userIDs, DriverIDs: driverIDs}, nil
}

func (s *bookingService) ListForRequester(ctx context.Context, caller model.Caller, limit int, offset int64) ([]*model.Booking, int64, error) {
	return s.findAndCount(ctx, repository.Query{User: caller.UserID}, limit, offset)
}

func (s *bookingService) ListActive(ctx context.Context, caller model.Caller) ([]*model.Booking, error) {
	bookings, err := s.repo.Find(ctx, repository.Query{
		User:     caller.UserID,
		Statuses: model.ActiveBookingStatuses,
	}, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list active bookings", "user", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve active bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListForDriver(ctx context.Context, caller model.Caller, activeOnly bool, limit int, offset int64) ([]*model.Booking, int64, error) {
	driver, err := s.deps.Directory.FindDriverByUser(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, 0, apperrors.NotFound("Driver profile")
		}
		return nil, 0, apperrors.Internal("Failed to retrieve driver profile", err)
	}

	q := repository.Query{Driver: driver.ID}
	if activeOnly {
		q.Statuses = []string{model.BookingStatusConfirmed, model.BookingStatusInProgress}
	}
	return s.findAndCount(ctx, q, limit, offset)
}

func (s *bookingService) findAndCount(ctx context.Context, q repository.Query, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, q)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Find(ctx, q, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) getBooking(ctx context.Context, id string) (*model.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// authorize admits admins, the requester and the user behind the assigned
// driver.
func (s *bookingService) authorize(ctx context.Context, caller model.Caller, booking *model.Booking) error {
	if caller.IsAdmin() || (caller.UserID != "" && caller.UserID == booking.User) {
		return nil
	}
	if booking.HasDriver() && caller.UserID != "" {
		driver, err := s.deps.Directory.FindDriver(ctx, booking.Driver)
		switch {
		case err == nil && driver.User == caller.UserID:
			return nil
		case err != nil && !errors.Is(err, directory.ErrNotFound):
			return apperrors.Internal("Failed to resolve assigned driver", err)
		}
	}
	return apperrors.Forbidden("not authorized to access this booking")
}

// claimDriver validates eligibility and then claims the driver atomically.
// Eligibility is checked again by the claim itself.
func (s *bookingService) claimDriver(ctx context.Context, driverID string) (*model.Driver, error) {
	driver, err := s.deps.Directory.FindDriver(ctx, driverID)
	if err != nil {
		return nil, s.lookupError(err, "Driver", driverID)
	}
	if !driver.Eligible() {
		return nil, apperrors.InvalidTransition("driver not available")
	}
	if driver.Vehicle == "" {
		return nil, apperrors.InvalidTransition("driver has no vehicle assigned")
	}
	if _, err := s.deps.Directory.FindVehicle(ctx, driver.Vehicle); err != nil {
		return nil, s.lookupError(err, "Vehicle", driver.Vehicle)
	}

	claimed, err := s.deps.Ledger.Claim(ctx, driver.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to reserve driver", err)
	}
	if !claimed {
		return nil, apperrors.InvalidTransition("driver not available")
	}
	return driver, nil
}

// autoAssign claims the first claimable candidate. Nearest-first ordering
// applies only when the pickup has real coordinates. No candidate is not an
// error; the booking stays pending.
func (s *bookingService) autoAssign(ctx context.Context, booking *model.Booking) (*model.Driver, error) {
	var candidates []*model.Driver
	var err error
	if booking.PickupLocation.HasCoordinates() {
		candidates, err = s.deps.Locator.FindEligibleNear(ctx,
			booking.PickupLocation.Longitude(),
			booking.PickupLocation.Latitude(),
			s.cfg.EmergencyRadiusMeters,
			s.cfg.AutoAssignCandidates,
		)
	} else {
		candidates, err = s.deps.Locator.FindEligible(ctx, s.cfg.AutoAssignCandidates)
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to search for available drivers", err)
	}

	for _, candidate := range candidates {
		if candidate.Vehicle == "" {
			continue
		}
		claimed, err := s.deps.Ledger.Claim(ctx, candidate.ID)
		if err != nil {
			s.cfg.Log.Warn("Failed to claim candidate driver", "driver_id", candidate.ID, "error", err)
			continue
		}
		if claimed {
			return candidate, nil
		}
	}

	s.cfg.Log.Info("No driver available for emergency booking",
		"user", booking.User,
		"candidates", len(candidates),
	)
	return nil, nil
}

// releaseAfterFailure undoes a claim whose booking write did not happen.
func (s *bookingService) releaseAfterFailure(ctx context.Context, driverID, operation string) {
	if _, err := s.deps.Ledger.Release(ctx, driverID, time.Time{}); err != nil {
		s.recordDivergence("", driverID, operation, err)
	}
}

func (s *bookingService) recordDivergence(bookingID, driverID, operation string, err error) {
	observability.AvailabilityDivergenceTotal.WithLabelValues(operation).Inc()
	s.cfg.Log.Error("Driver availability diverged from booking state",
		"booking_id", bookingID,
		"driver_id", driverID,
		"want_available", true,
		"operation", operation,
		"error", err,
	)
}

func (s *bookingService) publish(ctx context.Context, event model.BookingEvent) {
	if s.deps.Events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.deps.Events.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

func (s *bookingService) lookupError(err error, resource, id string) error {
	if errors.Is(err, directory.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to retrieve %s", strings.ToLower(resource)), err)
}

// writeError maps repository sentinels from a conditional write.
func (s *bookingService) writeError(err error, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return apperrors.AsAppError(err)
	case errors.Is(err, bookingserrors.ErrStatusConflict):
		return apperrors.InvalidTransition("booking was modified concurrently, reload and retry")
	case errors.Is(err, bookingserrors.ErrAlreadyRated):
		return apperrors.InvalidTransition("booking already rated")
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFound("Booking")
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal(message, err)
	}
}

// resetServerFields clears fields only the lifecycle may set.
func (s *bookingService) resetServerFields(booking *model.Booking) {
	booking.ID = ""
	booking.Driver = ""
	booking.Vehicle = ""
	booking.Status = model.BookingStatusPending
	booking.StartTime = nil
	booking.EndTime = nil
	booking.ActualTime = 0
	booking.CancelledBy = ""
	booking.CancellationReason = ""
	booking.Rating = nil
}

// sanitize normalizes free text. Phone numbers without a country code are
// read in the service region.
func (s *bookingService) sanitize(booking *model.Booking, region string) {
	booking.PatientDetails.Name = sanitizer.SanitizeText(booking.PatientDetails.Name)
	booking.PatientDetails.Gender = strings.ToLower(sanitizer.SanitizeText(booking.PatientDetails.Gender))
	booking.PatientDetails.MedicalCondition = sanitizer.SanitizeText(booking.PatientDetails.MedicalCondition)
	booking.PatientDetails.AdditionalNotes = sanitizer.SanitizeText(booking.PatientDetails.AdditionalNotes)
	booking.PickupLocation.Address = sanitizer.SanitizeText(booking.PickupLocation.Address)
	if booking.DropLocation != nil {
		booking.DropLocation.Address = sanitizer.SanitizeText(booking.DropLocation.Address)
	}
	booking.Requirements = sanitizer.SanitizeSlice(booking.Requirements, sanitizer.SanitizeText)
	if booking.EmergencyContact != nil {
		booking.EmergencyContact.Name = sanitizer.SanitizeText(booking.EmergencyContact.Name)
		booking.EmergencyContact.Relationship = sanitizer.SanitizeText(booking.EmergencyContact.Relationship)
		if phone := sanitizer.SanitizePhoneIn(booking.EmergencyContact.Phone, region); phone != "" {
			booking.EmergencyContact.Phone = phone
		}
	}
	booking.Fare.PaymentMethod = sanitizer.SanitizeText(booking.Fare.PaymentMethod)
}

func (s *bookingService) applyDefaults(booking *model.Booking) {
	booking.BookingType = strings.ToLower(strings.TrimSpace(booking.BookingType))
	if booking.Fare.Currency == "" {
		booking.Fare.Currency = model.DefaultCurrency
	}
	if booking.Fare.PaymentStatus == "" {
		booking.Fare.PaymentStatus = model.PaymentStatusPending
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user", booking.User, "error", err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Booking validation failed", verrs.Details())
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// price fills in the fare, distance and estimated time when the client left
// them unset.
func (s *bookingService) price(ctx context.Context, booking *model.Booking) error {
	if booking.Fare.Amount > 0 {
		if booking.Distance == 0 && booking.DropLocation != nil &&
			booking.PickupLocation.HasCoordinates() && booking.DropLocation.HasCoordinates() {
			booking.Distance = geo.RoundTo(geo.HaversineKm(
				booking.PickupLocation.Longitude(), booking.PickupLocation.Latitude(),
				booking.DropLocation.Longitude(), booking.DropLocation.Latitude(),
			), 2)
			booking.EstimatedTime = geo.EstimateMinutes(booking.Distance)
		}
		return nil
	}
	if s.deps.Pricer == nil {
		return nil
	}

	at := s.now()
	if booking.ScheduledTime != nil {
		at = *booking.ScheduledTime
	}
	quote, err := s.deps.Pricer.Quote(ctx, model.FareQuoteRequest{
		BookingType:    booking.BookingType,
		PickupLocation: booking.PickupLocation,
		DropLocation:   booking.DropLocation,
		Requirements:   booking.Requirements,
		At:             at,
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to quote fare", err)
	}

	booking.Fare.Amount = quote.Total
	booking.Fare.Currency = quote.Currency
	booking.Distance = quote.DistanceKm
	booking.EstimatedTime = quote.EstimatedMinutes
	return nil
}
