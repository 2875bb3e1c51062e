package model

import "time"

const (
	RoleUser   = "user"
	RoleDriver = "driver"
	RoleAdmin  = "admin"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

type User struct {
	ID                string             `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name"`
	Email             string             `json:"email" bson:"email"`
	Phone             string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role              string             `json:"role" bson:"role"`
	Status            string             `json:"status" bson:"status"`
	MedicalInfo       *MedicalInfo       `json:"medical_info,omitempty" bson:"medical_info,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty" bson:"emergency_contacts,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
}

type MedicalInfo struct {
	BloodGroup  string   `json:"blood_group,omitempty" bson:"blood_group,omitempty"`
	Allergies   []string `json:"allergies,omitempty" bson:"allergies,omitempty"`
	Conditions  []string `json:"conditions,omitempty" bson:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty" bson:"medications,omitempty"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}

// Caller identifies the authenticated principal behind a request.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
