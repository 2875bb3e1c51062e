package model

import "time"

const (
	DriverStatusActive    = "active"
	DriverStatusInactive  = "inactive"
	DriverStatusSuspended = "suspended"
	DriverStatusPending   = "pending"
)

type Driver struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	User            string    `json:"user" bson:"user" validate:"required,mongodb"`
	LicenseNumber   string    `json:"license_number" bson:"license_number" validate:"required,min=4,max=30"`
	LicenseExpiry   time.Time `json:"license_expiry" bson:"license_expiry" validate:"required"`
	Vehicle         string    `json:"vehicle" bson:"vehicle" validate:"required,mongodb"`
	IsAvailable     bool      `json:"is_available" bson:"is_available"`
	IsVerified      bool      `json:"is_verified" bson:"is_verified"`
	CurrentLocation *GeoPoint `json:"current_location,omitempty" bson:"current_location,omitempty"`
	Rating          float64   `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	TotalTrips      int       `json:"total_trips" bson:"total_trips" validate:"gte=0"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=active inactive suspended pending"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// Eligible reports whether the driver may be bound to a booking right now.
func (d *Driver) Eligible() bool {
	return d.IsAvailable && d.IsVerified && d.Status == DriverStatusActive
}

// DriverRegistration is submitted by a user applying to become a driver.
type DriverRegistration struct {
	LicenseNumber string    `json:"license_number" validate:"required,min=4,max=30"`
	LicenseExpiry time.Time `json:"license_expiry" validate:"required"`
	Vehicle       Vehicle   `json:"vehicle"`
}

type DriverFilter struct {
	Status      string
	IsVerified  *bool
	IsAvailable *bool
}

// DriverSummary is the projection embedded in booking views.
type DriverSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Rating      float64   `json:"rating"`
	TotalTrips  int       `json:"total_trips"`
	Location    *GeoPoint `json:"current_location,omitempty"`
	IsAvailable bool      `json:"is_available"`
}
