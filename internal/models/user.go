package models

import "time"

// User represents a household member. Authentication is handled by the
// surrounding application; the engine only needs users as notification
// recipients and as the subject of human-triggered job runs.
type User struct {
	Base
	HouseholdID string     `gorm:"type:uuid;not null;index" json:"household_id"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Household Household `gorm:"foreignKey:HouseholdID" json:"household,omitempty"`
}
