package model

import "time"

const (
	EventBookingCreated    = "booking.created"
	EventBookingConfirmed  = "booking.confirmed"
	EventBookingStarted    = "booking.started"
	EventBookingCompleted  = "booking.completed"
	EventBookingCancelled  = "booking.cancelled"
	EventBookingRated      = "booking.rated"
	EventAvailabilityDrift = "driver.availability_drift"
)

// BookingEvent is published for every lifecycle transition.
type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      string    `json:"booking_id"`
	DriverID       string    `json:"driver_id,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ReleasesDriver reports whether the event ends the driver's hold on a booking.
func (e BookingEvent) ReleasesDriver() bool {
	return e.DriverID != "" && (e.Status == BookingStatusCompleted || e.Status == BookingStatusCancelled)
}
