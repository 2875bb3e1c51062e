package model

import "time"

const (
	VehicleStatusActive       = "active"
	VehicleStatusMaintenance  = "maintenance"
	VehicleStatusOutOfService = "out-of-service"
)

var (
	VehicleTypes = []string{
		"Basic Life Support",
		"Advanced Life Support",
		"Patient Transport",
		"Neonatal",
	}

	VehicleFeatures = []string{
		"Oxygen",
		"Stretcher",
		"Wheelchair",
		"Defibrillator",
		"Ventilator",
		"Medical Staff",
	}
)

type Vehicle struct {
	ID                 string     `json:"id,omitempty" bson:"_id,omitempty"`
	RegistrationNumber string     `json:"registration_number" bson:"registration_number" validate:"required,min=4,max=20"`
	Type               string     `json:"type" bson:"type" validate:"required,vehicle_type"`
	Model              string     `json:"model" bson:"model" validate:"required,min=1,max=50"`
	Manufacturer       string     `json:"manufacturer" bson:"manufacturer" validate:"required,min=1,max=50"`
	Year               int        `json:"year" bson:"year" validate:"required,gte=1990,lte=2100"`
	Capacity           int        `json:"capacity" bson:"capacity" validate:"gte=0,lte=20"`
	Features           []string   `json:"features,omitempty" bson:"features,omitempty" validate:"omitempty,dive,vehicle_feature"`
	LastMaintenance    *time.Time `json:"last_maintenance,omitempty" bson:"last_maintenance,omitempty"`
	NextMaintenance    *time.Time `json:"next_maintenance,omitempty" bson:"next_maintenance,omitempty"`
	Status             string     `json:"status" bson:"status" validate:"required,oneof=active maintenance out-of-service"`
	InsuranceExpiry    *time.Time `json:"insurance_expiry,omitempty" bson:"insurance_expiry,omitempty"`
	Image              string     `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,url"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" bson:"updated_at"`
}

type VehicleUpdate struct {
	Model           string     `json:"model,omitempty" validate:"omitempty,min=1,max=50"`
	Manufacturer    string     `json:"manufacturer,omitempty" validate:"omitempty,min=1,max=50"`
	Type            string     `json:"type,omitempty" validate:"omitempty,vehicle_type"`
	Year            *int       `json:"year,omitempty" validate:"omitempty,gte=1990,lte=2100"`
	Capacity        *int       `json:"capacity,omitempty" validate:"omitempty,gte=0,lte=20"`
	Features        *[]string  `json:"features,omitempty" validate:"omitempty,dive,vehicle_feature"`
	LastMaintenance *time.Time `json:"last_maintenance,omitempty"`
	NextMaintenance *time.Time `json:"next_maintenance,omitempty"`
	InsuranceExpiry *time.Time `json:"insurance_expiry,omitempty"`
	Image           *string    `json:"image,omitempty" validate:"omitempty,url"`
}

type VehicleFilter struct {
	Type   string
	Status string
}

type VehicleSummary struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registration_number"`
	Type               string `json:"type"`
	Model              string `json:"model"`
	Manufacturer       string `json:"manufacturer"`
}
