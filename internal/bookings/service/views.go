package service

import (
	"context"
	"errors"
	"time"

	"ambulink/internal/bookings/repository"
	"ambulink/internal/directory"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/model"
)

// BookingView is a booking with its references resolved for display.
type BookingView struct {
	*model.Booking
	Requester      *model.UserSummary    `json:"requester,omitempty"`
	DriverDetails  *model.DriverSummary  `json:"driver_details,omitempty"`
	VehicleDetails *model.VehicleSummary `json:"vehicle_details,omitempty"`
}

type BookingStats struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
	ByType    map[string]int64 `json:"by_type"`
	Today     int64            `json:"today"`
	LastWeek  int64            `json:"last_week"`
	ThisMonth int64            `json:"this_month"`
}

type EarningsSummary struct {
	Trips    int64   `json:"trips"`
	Earnings float64 `json:"earnings"`
}

type DriverStats struct {
	DriverID   string          `json:"driver_id"`
	Rating     float64         `json:"rating"`
	TotalTrips int             `json:"total_trips"`
	Overall    EarningsSummary `json:"overall"`
	Today      EarningsSummary `json:"today"`
	LastWeek   EarningsSummary `json:"last_week"`
	ThisMonth  EarningsSummary `json:"this_month"`
}

func (s *bookingService) GetByID(ctx context.Context, id string, caller model.Caller) (*BookingView, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, booking); err != nil {
		return nil, err
	}
	return s.assembleView(ctx, booking)
}

// assembleView resolves requester, driver and vehicle summaries. References
// that no longer resolve are left out of the view.
func (s *bookingService) assembleView(ctx context.Context, booking *model.Booking) (*BookingView, error) {
	view := &BookingView{Booking: booking}

	user, err := s.deps.Directory.FindUser(ctx, booking.User)
	if err := ignoreNotFound(err); err != nil {
		return nil, apperrors.Internal("Failed to resolve requester", err)
	}
	if user != nil {
		view.Requester = user.Summary()
	}

	if booking.HasDriver() {
		driver, err := s.deps.Directory.FindDriver(ctx, booking.Driver)
		if err := ignoreNotFound(err); err != nil {
			return nil, apperrors.Internal("Failed to resolve driver", err)
		}
		if driver != nil {
			summary := &model.DriverSummary{
				ID:          driver.ID,
				Rating:      driver.Rating,
				TotalTrips:  driver.TotalTrips,
				Location:    driver.CurrentLocation,
				IsAvailable: driver.IsAvailable,
			}
			driverUser, err := s.deps.Directory.FindUser(ctx, driver.User)
			if err := ignoreNotFound(err); err != nil {
				return nil, apperrors.Internal("Failed to resolve driver user", err)
			}
			if driverUser != nil {
				summary.Name = driverUser.Name
				summary.Phone = driverUser.Phone
			}
			view.DriverDetails = summary
		}
	}

	if booking.Vehicle != "" {
		vehicle, err := s.deps.Directory.FindVehicle(ctx, booking.Vehicle)
		if err := ignoreNotFound(err); err != nil {
			return nil, apperrors.Internal("Failed to resolve vehicle", err)
		}
		if vehicle != nil {
			view.VehicleDetails = &model.VehicleSummary{
				ID:                 vehicle.ID,
				RegistrationNumber: vehicle.RegistrationNumber,
				Type:               vehicle.Type,
				Model:              vehicle.Model,
				Manufacturer:       vehicle.Manufacturer,
			}
		}
	}

	return view, nil
}

func ignoreNotFound(err error) error {
	if err == nil || errors.Is(err, directory.ErrNotFound) {
		return nil
	}
	return err
}

// periodStarts returns local midnight today, seven days before it and the
// first day of the current month.
func periodStarts(now time.Time, loc *time.Location) (today, lastWeek, thisMonth time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	today = time.Date(y, m, d, 0, 0, 0, 0, loc)
	return today, today.AddDate(0, 0, -7), time.Date(y, m, 1, 0, 0, 0, 0, loc)
}

func (s *bookingService) timezone(ctx context.Context) *time.Location {
	if s.deps.Pricer == nil {
		return time.UTC
	}
	return s.deps.Pricer.Timezone(ctx)
}

func (s *bookingService) Stats(ctx context.Context) (*BookingStats, error) {
	today, lastWeek, thisMonth := periodStarts(s.now(), s.timezone(ctx))

	stats := &BookingStats{}
	var err error
	if stats.Total, err = s.repo.Count(ctx, repository.Query{}); err != nil {
		return nil, s.statsError(err)
	}
	if stats.ByStatus, err = s.repo.CountByField(ctx, "status"); err != nil {
		return nil, s.statsError(err)
	}
	if stats.ByType, err = s.repo.CountByField(ctx, "booking_type"); err != nil {
		return nil, s.statsError(err)
	}
	if stats.Today, err = s.repo.Count(ctx, repository.Query{From: &today}); err != nil {
		return nil, s.statsError(err)
	}
	if stats.LastWeek, err = s.repo.Count(ctx, repository.Query{From: &lastWeek}); err != nil {
		return nil, s.statsError(err)
	}
	if stats.ThisMonth, err = s.repo.Count(ctx, repository.Query{From: &thisMonth}); err != nil {
		return nil, s.statsError(err)
	}

	return stats, nil
}

func (s *bookingService) statsError(err error) error {
	s.cfg.Log.Error("Failed to compute booking stats", "error", err)
	return apperrors.Internal("Failed to compute booking stats", err)
}

func (s *bookingService) DriverStats(ctx context.Context, caller model.Caller) (*DriverStats, error) {
	driver, err := s.deps.Directory.FindDriverByUser(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, apperrors.NotFound("Driver profile")
		}
		return nil, apperrors.Internal("Failed to retrieve driver profile", err)
	}

	today, lastWeek, thisMonth := periodStarts(s.now(), s.timezone(ctx))
	stats := &DriverStats{
		DriverID:   driver.ID,
		Rating:     driver.Rating,
		TotalTrips: driver.TotalTrips,
	}

	periods := []struct {
		since *time.Time
		out   *EarningsSummary
	}{
		{nil, &stats.Overall},
		{&today, &stats.Today},
		{&lastWeek, &stats.LastWeek},
		{&thisMonth, &stats.ThisMonth},
	}
	for _, p := range periods {
		earnings, err := s.repo.DriverEarnings(ctx, driver.ID, p.since)
		if err != nil {
			return nil, s.statsError(err)
		}
		*p.out = EarningsSummary{Trips: earnings.Trips, Earnings: earnings.Amount}
	}

	return stats, nil
}
