package model

import (
	"time"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in-progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"

	BookingTypeEmergency = "emergency"
	BookingTypeScheduled = "scheduled"
	BookingTypeTransfer  = "transfer"

	CancelledByUser   = "user"
	CancelledByDriver = "driver"
	CancelledByAdmin  = "admin"
	CancelledBySystem = "system"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	DefaultCurrency = "INR"
)

var (
	BookingRequirements = []string{"Oxygen", "Stretcher", "Wheelchair", "Medical Staff"}

	ActiveBookingStatuses = []string{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusInProgress,
	}
)

type Booking struct {
	ID                 string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	User               string            `json:"user" bson:"user" validate:"required,mongodb"`
	Driver             string            `json:"driver,omitempty" bson:"driver,omitempty" validate:"omitempty,mongodb"`
	Vehicle            string            `json:"vehicle,omitempty" bson:"vehicle,omitempty" validate:"omitempty,mongodb"`
	BookingType        string            `json:"booking_type" bson:"booking_type" validate:"required,oneof=emergency scheduled transfer"`
	PatientDetails     PatientDetails    `json:"patient_details" bson:"patient_details"`
	PickupLocation     Location          `json:"pickup_location" bson:"pickup_location"`
	DropLocation       *Location         `json:"drop_location,omitempty" bson:"drop_location,omitempty"`
	ScheduledTime      *time.Time        `json:"scheduled_time,omitempty" bson:"scheduled_time,omitempty"`
	Requirements       []string          `json:"requirements,omitempty" bson:"requirements,omitempty" validate:"omitempty,max=4,dive,booking_requirement"`
	Status             string            `json:"status" bson:"status" validate:"required,oneof=pending confirmed in-progress completed cancelled"`
	Fare               Fare              `json:"fare" bson:"fare"`
	Distance           float64           `json:"distance,omitempty" bson:"distance,omitempty" validate:"gte=0"`
	EstimatedTime      int               `json:"estimated_time,omitempty" bson:"estimated_time,omitempty" validate:"gte=0"`
	ActualTime         int               `json:"actual_time,omitempty" bson:"actual_time,omitempty"`
	StartTime          *time.Time        `json:"start_time,omitempty" bson:"start_time,omitempty"`
	EndTime            *time.Time        `json:"end_time,omitempty" bson:"end_time,omitempty"`
	CancelledBy        string            `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty" validate:"omitempty,oneof=user driver admin system"`
	CancellationReason string            `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"max=500"`
	Rating             *Rating           `json:"rating,omitempty" bson:"rating,omitempty"`
	EmergencyContact   *EmergencyContact `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`
	CreatedAt          time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" bson:"updated_at"`
}

type PatientDetails struct {
	Name             string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Age              int    `json:"age,omitempty" bson:"age,omitempty" validate:"gte=0,lte=150"`
	Gender           string `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	MedicalCondition string `json:"medical_condition,omitempty" bson:"medical_condition,omitempty" validate:"max=500"`
	AdditionalNotes  string `json:"additional_notes,omitempty" bson:"additional_notes,omitempty" validate:"max=1000"`
}

// Location is an address with optional [longitude, latitude] coordinates.
type Location struct {
	Address     string    `json:"address" bson:"address" validate:"required,min=3,max=300"`
	Coordinates []float64 `json:"coordinates,omitempty" bson:"coordinates,omitempty" validate:"omitempty,lnglat"`
}

// HasCoordinates is false for missing coordinates and for the [0, 0]
// placeholder clients send when no position is known.
func (l Location) HasCoordinates() bool {
	return len(l.Coordinates) == 2 && l.Coordinates[0] != 0 && l.Coordinates[1] != 0
}

func (l Location) Longitude() float64 {
	if len(l.Coordinates) != 2 {
		return 0
	}
	return l.Coordinates[0]
}

func (l Location) Latitude() float64 {
	if len(l.Coordinates) != 2 {
		return 0
	}
	return l.Coordinates[1]
}

type Fare struct {
	Amount        float64 `json:"amount" bson:"amount" validate:"gte=0"`
	Currency      string  `json:"currency" bson:"currency" validate:"omitempty,len=3"`
	PaymentStatus string  `json:"payment_status" bson:"payment_status" validate:"omitempty,oneof=pending paid failed"`
	PaymentMethod string  `json:"payment_method,omitempty" bson:"payment_method,omitempty" validate:"max=50"`
}

type Rating struct {
	Value     int       `json:"value" bson:"value"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type EmergencyContact struct {
	Name         string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" bson:"phone" validate:"required,e164"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty" validate:"max=50"`
}

func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

func (b *Booking) HasDriver() bool {
	return b.Driver != ""
}

func (b *Booking) IsRated() bool {
	return b.Rating != nil && b.Rating.Value > 0
}

// BookingFilter narrows the admin booking listing.
type BookingFilter struct {
	Status      string
	BookingType string
	FromDate    *time.Time
	ToDate      *time.Time
	Search      string
}
