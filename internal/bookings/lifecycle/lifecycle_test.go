package lifecycle

import (
	"testing"
	"time"

	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/model"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantCode string
	}{
		{model.BookingStatusPending, model.BookingStatusCancelled, ""},
		{model.BookingStatusPending, model.BookingStatusCompleted, ""},
		{model.BookingStatusConfirmed, model.BookingStatusInProgress, ""},
		{model.BookingStatusConfirmed, model.BookingStatusCompleted, ""},
		{model.BookingStatusConfirmed, model.BookingStatusCancelled, ""},
		{model.BookingStatusInProgress, model.BookingStatusCompleted, ""},

		{model.BookingStatusPending, model.BookingStatusConfirmed, apperrors.CodeInvalidTransition},
		{model.BookingStatusPending, model.BookingStatusInProgress, apperrors.CodeInvalidTransition},
		{model.BookingStatusPending, model.BookingStatusPending, apperrors.CodeInvalidTransition},
		{model.BookingStatusInProgress, model.BookingStatusCancelled, apperrors.CodeInvalidTransition},
		{model.BookingStatusInProgress, model.BookingStatusConfirmed, apperrors.CodeInvalidTransition},
		{model.BookingStatusCompleted, model.BookingStatusCancelled, apperrors.CodeInvalidTransition},
		{model.BookingStatusCompleted, model.BookingStatusCompleted, apperrors.CodeInvalidTransition},
		{model.BookingStatusCancelled, model.BookingStatusConfirmed, apperrors.CodeInvalidTransition},
		{model.BookingStatusConfirmed, "teleported", apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	for status, want := range map[string]bool{
		model.BookingStatusPending:    true,
		model.BookingStatusConfirmed:  true,
		model.BookingStatusInProgress: false,
		model.BookingStatusCompleted:  false,
		model.BookingStatusCancelled:  false,
	} {
		if got := CanCancel(status); got != want {
			t.Errorf("CanCancel(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestApply_InProgressSetsStartTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	u := Apply(&model.Booking{Status: model.BookingStatusConfirmed}, model.BookingStatusInProgress, now, CancelInfo{})

	if u.StartTime == nil || !u.StartTime.Equal(now) {
		t.Fatalf("StartTime = %v, want %v", u.StartTime, now)
	}
	if u.EndTime != nil || u.ActualTime != nil {
		t.Error("in-progress must not set end or actual time")
	}
}

func TestApply_CompletedComputesActualTime(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(42*time.Minute + 31*time.Second)
	booking := &model.Booking{Status: model.BookingStatusInProgress, StartTime: &start}

	u := Apply(booking, model.BookingStatusCompleted, end, CancelInfo{})

	if u.EndTime == nil || !u.EndTime.Equal(end) {
		t.Fatalf("EndTime = %v, want %v", u.EndTime, end)
	}
	if u.ActualTime == nil || *u.ActualTime != 43 {
		t.Fatalf("ActualTime = %v, want 43", u.ActualTime)
	}

	u.Merge(booking)
	if booking.ActualTime != 43 || booking.Status != model.BookingStatusCompleted {
		t.Errorf("merge produced %+v", booking)
	}
}

func TestApply_CompletedWithoutStart(t *testing.T) {
	u := Apply(&model.Booking{Status: model.BookingStatusPending}, model.BookingStatusCompleted, time.Now(), CancelInfo{})
	if u.ActualTime != nil {
		t.Errorf("ActualTime = %d, want unset without a start time", *u.ActualTime)
	}
}

func TestApply_CancelDefaultsReason(t *testing.T) {
	u := Apply(&model.Booking{}, model.BookingStatusCancelled, time.Now(), CancelInfo{By: model.CancelledByUser})
	if u.CancellationReason != DefaultCancellationReason {
		t.Errorf("reason = %q", u.CancellationReason)
	}
	if u.CancelledBy != model.CancelledByUser {
		t.Errorf("cancelled_by = %q", u.CancelledBy)
	}

	u = Apply(&model.Booking{}, model.BookingStatusCancelled, time.Now(), CancelInfo{Reason: "patient recovered", By: model.CancelledByAdmin})
	if u.CancellationReason != "patient recovered" {
		t.Errorf("reason = %q", u.CancellationReason)
	}
}

func TestCancelledBy(t *testing.T) {
	booking := &model.Booking{User: "u1", Driver: "d1"}

	tests := []struct {
		name   string
		caller model.Caller
		want   string
	}{
		{"admin", model.Caller{UserID: "a1", Role: model.RoleAdmin}, model.CancelledByAdmin},
		{"requester", model.Caller{UserID: "u1", Role: model.RoleUser}, model.CancelledByUser},
		{"driver", model.Caller{UserID: "du1", Role: model.RoleDriver}, model.CancelledByDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CancelledBy(tt.caller, booking); got != tt.want {
				t.Errorf("CancelledBy = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEventType(t *testing.T) {
	if EventType(model.BookingStatusCompleted) != model.EventBookingCompleted {
		t.Error("completed should map to booking.completed")
	}
	if EventType(model.BookingStatusInProgress) != model.EventBookingStarted {
		t.Error("in-progress should map to booking.started")
	}
	if !ReleasesDriver(model.BookingStatusCancelled) || ReleasesDriver(model.BookingStatusInProgress) {
		t.Error("only terminal statuses release the driver")
	}
}
