package validator

import (
	"errors"
	"strings"
	"testing"

	"ambulink/pkg/logger"
	"ambulink/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	}))
}

func validBooking() *model.Booking {
	return &model.Booking{
		User:           "65f0a1b2c3d4e5f601234567",
		BookingType:    model.BookingTypeScheduled,
		PatientDetails: model.PatientDetails{Name: "Asha Rao", Age: 64, Gender: "female"},
		PickupLocation: model.Location{Address: "12 MG Road, Bengaluru", Coordinates: []float64{77.6101, 12.9756}},
		DropLocation:   &model.Location{Address: "St. John's Hospital, Koramangala"},
		Requirements:   []string{"Oxygen", "Stretcher"},
		Status:         model.BookingStatusPending,
		Fare:           model.Fare{Currency: "INR", PaymentStatus: model.PaymentStatusPending},
	}
}

func TestValidate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantError bool
		wantField string
	}{
		{name: "valid scheduled booking", mutate: func(b *model.Booking) {}},
		{
			name: "emergency without drop location",
			mutate: func(b *model.Booking) {
				b.BookingType = model.BookingTypeEmergency
				b.DropLocation = nil
			},
		},
		{
			name:      "scheduled without drop location",
			mutate:    func(b *model.Booking) { b.DropLocation = nil },
			wantError: true,
			wantField: "DropLocation",
		},
		{
			name:      "unknown booking type",
			mutate:    func(b *model.Booking) { b.BookingType = "helicopter" },
			wantError: true,
			wantField: "BookingType",
		},
		{
			name:      "unknown requirement",
			mutate:    func(b *model.Booking) { b.Requirements = []string{"Oxygen", "Jetpack"} },
			wantError: true,
			wantField: "Requirements",
		},
		{
			name:      "latitude out of range",
			mutate:    func(b *model.Booking) { b.PickupLocation.Coordinates = []float64{77.6, 95} },
			wantError: true,
			wantField: "Coordinates",
		},
		{
			name:      "single coordinate",
			mutate:    func(b *model.Booking) { b.PickupLocation.Coordinates = []float64{77.6} },
			wantError: true,
			wantField: "Coordinates",
		},
		{
			name:      "missing patient name",
			mutate:    func(b *model.Booking) { b.PatientDetails.Name = "" },
			wantError: true,
			wantField: "Name",
		},
		{
			name: "emergency contact phone not E.164",
			mutate: func(b *model.Booking) {
				b.EmergencyContact = &model.EmergencyContact{Name: "Ravi", Phone: "98765 43210"}
			},
			wantError: true,
			wantField: "Phone",
		},
		{
			name:      "driver without vehicle",
			mutate:    func(b *model.Booking) { b.Driver = "65f0a1b2c3d4e5f601234568" },
			wantError: true,
			wantField: "Vehicle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if (err != nil) != tt.wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError {
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, e := range verrs {
				if strings.Contains(e.Field, tt.wantField) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error mentions %s: %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidationErrors_Details(t *testing.T) {
	errs := ValidationErrors{{Field: "Booking.BookingType", Message: "BookingType is required"}}
	if errs.Details()["Booking.BookingType"] != "BookingType is required" {
		t.Errorf("unexpected details: %v", errs.Details())
	}
	if !strings.Contains(errs.Error(), "1 error(s)") {
		t.Errorf("unexpected message: %s", errs.Error())
	}
}
