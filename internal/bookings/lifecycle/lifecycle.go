// Package lifecycle holds the booking state machine: which status changes are
// allowed and which fields each change sets.
package lifecycle

import (
	"fmt"
	"math"
	"slices"
	"time"

	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/model"
)

const DefaultCancellationReason = "No reason provided"

// transitions lists the status updates a caller may request. Confirmation is
// absent on purpose: a booking becomes confirmed only through assignment.
var transitions = map[string][]string{
	model.BookingStatusPending:    {model.BookingStatusCancelled, model.BookingStatusCompleted},
	model.BookingStatusConfirmed:  {model.BookingStatusInProgress, model.BookingStatusCompleted, model.BookingStatusCancelled},
	model.BookingStatusInProgress: {model.BookingStatusCompleted},
}

var knownStatuses = []string{
	model.BookingStatusPending,
	model.BookingStatusConfirmed,
	model.BookingStatusInProgress,
	model.BookingStatusCompleted,
	model.BookingStatusCancelled,
}

func IsKnownStatus(status string) bool {
	return slices.Contains(knownStatuses, status)
}

func IsTerminal(status string) bool {
	return status == model.BookingStatusCompleted || status == model.BookingStatusCancelled
}

// CheckTransition validates a requested status change.
func CheckTransition(from, to string) error {
	if !IsKnownStatus(to) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown booking status: %q", to))
	}
	if IsTerminal(from) {
		return apperrors.InvalidTransition(fmt.Sprintf("booking is already %s", from))
	}
	if from == to {
		return apperrors.InvalidTransition(fmt.Sprintf("booking is already %s", from))
	}
	if !slices.Contains(transitions[from], to) {
		return apperrors.InvalidTransition(fmt.Sprintf("cannot change booking status from %s to %s", from, to))
	}
	return nil
}

// CanCancel reports whether a booking in status may still be cancelled.
func CanCancel(status string) bool {
	return status == model.BookingStatusPending || status == model.BookingStatusConfirmed
}

// ReleasesDriver reports whether entering status frees the assigned driver.
func ReleasesDriver(status string) bool {
	return IsTerminal(status)
}

type CancelInfo struct {
	Reason string
	By     string
}

// Update is the set of fields a transition writes. Nil pointers are left
// untouched in storage.
type Update struct {
	Status             string
	StartTime          *time.Time
	EndTime            *time.Time
	ActualTime         *int
	CancellationReason string
	CancelledBy        string
	UpdatedAt          time.Time
}

// Apply computes the write for moving booking to status at now. It does not
// check the transition; call CheckTransition first.
func Apply(booking *model.Booking, to string, now time.Time, cancel CancelInfo) Update {
	now = now.UTC().Truncate(time.Millisecond)
	u := Update{Status: to, UpdatedAt: now}

	switch to {
	case model.BookingStatusInProgress:
		u.StartTime = &now
	case model.BookingStatusCompleted:
		u.EndTime = &now
		if booking.StartTime != nil {
			minutes := ActualMinutes(*booking.StartTime, now)
			u.ActualTime = &minutes
		}
	case model.BookingStatusCancelled:
		u.CancellationReason = cancel.Reason
		if u.CancellationReason == "" {
			u.CancellationReason = DefaultCancellationReason
		}
		u.CancelledBy = cancel.By
	}
	return u
}

// ActualMinutes is the trip duration rounded to the nearest minute.
func ActualMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// Merge copies u onto booking so callers can return the post-write state
// without a second read.
func (u Update) Merge(booking *model.Booking) {
	booking.Status = u.Status
	booking.UpdatedAt = u.UpdatedAt
	if u.StartTime != nil {
		booking.StartTime = u.StartTime
	}
	if u.EndTime != nil {
		booking.EndTime = u.EndTime
	}
	if u.ActualTime != nil {
		booking.ActualTime = *u.ActualTime
	}
	if u.CancellationReason != "" {
		booking.CancellationReason = u.CancellationReason
	}
	if u.CancelledBy != "" {
		booking.CancelledBy = u.CancelledBy
	}
}

// CancelledBy derives the canceller role from the caller's relation to the
// booking.
func CancelledBy(caller model.Caller, booking *model.Booking) string {
	switch {
	case caller.IsAdmin():
		return model.CancelledByAdmin
	case caller.UserID == booking.User:
		return model.CancelledByUser
	default:
		return model.CancelledByDriver
	}
}

// EventType maps a target status to the event published for it.
func EventType(status string) string {
	switch status {
	case model.BookingStatusConfirmed:
		return model.EventBookingConfirmed
	case model.BookingStatusInProgress:
		return model.EventBookingStarted
	case model.BookingStatusCompleted:
		return model.EventBookingCompleted
	case model.BookingStatusCancelled:
		return model.EventBookingCancelled
	default:
		return model.EventBookingCreated
	}
}
