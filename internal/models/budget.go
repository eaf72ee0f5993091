package models

// Budget represents a monthly spending limit for a category. AlertThreshold
// is the percent-spent level at which a warning fires; spend at or beyond
// 100 percent fires a critical alert.
type Budget struct {
	Base
	HouseholdID    string  `gorm:"type:uuid;not null;index" json:"household_id"`
	CategoryID     string  `gorm:"type:uuid;not null" json:"category_id"`
	Name           string  `gorm:"not null" json:"name"`
	Amount         int64   `gorm:"type:bigint;not null" json:"amount"`
	AlertThreshold float64 `gorm:"not null;default:80" json:"alert_threshold"`
	AlertsEnabled  bool    `gorm:"default:true" json:"alerts_enabled"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
