//go:build integration

package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"ambulink/pkg/client"
	"ambulink/pkg/model"
)

var sequence atomic.Int64

// Pickup coordinates used across the suite, central Bengaluru.
const (
	PickupLng = 77.5946
	PickupLat = 12.9716
)

type RegistrationBuilder struct {
	reg model.DriverRegistration
}

// NewRegistrationBuilder returns a valid registration with unique licence and
// vehicle registration numbers.
func NewRegistrationBuilder() *RegistrationBuilder {
	n := sequence.Add(1)
	return &RegistrationBuilder{
		reg: model.DriverRegistration{
			LicenseNumber: fmt.Sprintf("DL%011d", n),
			LicenseExpiry: time.Now().AddDate(2, 0, 0).UTC(),
			Vehicle: model.Vehicle{
				RegistrationNumber: fmt.Sprintf("KA01IT%04d", n),
				Type:               "Basic Life Support",
				Model:              "Traveller",
				Manufacturer:       "Force",
				Year:               2022,
				Capacity:           2,
				Features:           []string{"Oxygen", "Stretcher"},
			},
		},
	}
}

func (b *RegistrationBuilder) WithVehicleType(vehicleType string) *RegistrationBuilder {
	b.reg.Vehicle.Type = vehicleType
	return b
}

func (b *RegistrationBuilder) Build() model.DriverRegistration {
	return b.reg
}

type BookingBuilder struct {
	req client.CreateBookingRequest
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		req: client.CreateBookingRequest{
			Booking: model.Booking{
				BookingType:    model.BookingTypeScheduled,
				PatientDetails: model.PatientDetails{Name: "Asha Rao", Age: 64, Gender: "female"},
				PickupLocation: model.Location{
					Address:     "12 MG Road, Bengaluru",
					Coordinates: []float64{PickupLng, PickupLat},
				},
				DropLocation: &model.Location{
					Address:     "City Hospital, Bengaluru",
					Coordinates: []float64{77.6101, 12.9352},
				},
			},
		},
	}
}

func (b *BookingBuilder) Emergency() *BookingBuilder {
	b.req.BookingType = model.BookingTypeEmergency
	return b
}

// ForUser books on behalf of another user; only admins may do this.
func (b *BookingBuilder) ForUser(userID string) *BookingBuilder {
	b.req.User = userID
	return b
}

func (b *BookingBuilder) WithDriver(driverID string) *BookingBuilder {
	b.req.Driver = driverID
	return b
}

func (b *BookingBuilder) WithRequirements(requirements ...string) *BookingBuilder {
	b.req.Requirements = requirements
	return b
}

func (b *BookingBuilder) Build() client.CreateBookingRequest {
	return b.req
}
