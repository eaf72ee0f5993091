package models

import "time"

// InsurancePolicy represents an insurance contract with a renewal date.
// Renewal reminders fire at exactly 30, 7, and 1 days before RenewalDate.
type InsurancePolicy struct {
	Base
	HouseholdID string    `gorm:"type:uuid;not null;index" json:"household_id"`
	Name        string    `gorm:"not null" json:"name"`
	Provider    string    `json:"provider"`
	Premium     int64     `gorm:"type:bigint;not null" json:"premium"`
	RenewalDate time.Time `gorm:"not null" json:"renewal_date"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
}
