package models

import "time"

// Frequency represents how often a recurring schedule repeats.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// RecurringSchedule represents a recurring financial event: a bill, salary,
// or transfer that repeats on a calendar rule. The rule fields (Frequency,
// DayOfWeek, DayOfMonth, MonthOfYear, StartDate, EndDate) are interpreted by
// the recurrence calculator; NextOccurrence is written exclusively from its
// output.
type RecurringSchedule struct {
	Base
	HouseholdID string  `gorm:"type:uuid;not null;index" json:"household_id"`
	Description string  `gorm:"not null" json:"description"`
	Amount      int64   `gorm:"type:bigint;not null" json:"amount"`
	Currency    string  `gorm:"not null;default:'USD'" json:"currency"`
	AccountID   string  `gorm:"type:uuid;not null" json:"account_id"`
	ToAccountID *string `gorm:"type:uuid" json:"to_account_id,omitempty"`
	CategoryID  *string `gorm:"type:uuid" json:"category_id,omitempty"`

	Frequency   Frequency  `gorm:"not null" json:"frequency"`
	DayOfWeek   *int       `json:"day_of_week,omitempty"`   // 0-6, weekly only
	DayOfMonth  *int       `json:"day_of_month,omitempty"`  // 1-31, monthly/quarterly/yearly
	MonthOfYear *int       `json:"month_of_year,omitempty"` // 1-12, yearly only
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	IsActive        bool       `gorm:"default:true" json:"is_active"`
	AutoCreate      bool       `gorm:"default:false" json:"auto_create"`
	NextOccurrence  time.Time  `gorm:"not null;index" json:"next_occurrence"`
	LastOccurrence  *time.Time `json:"last_occurrence,omitempty"`
	OccurrenceCount int64      `gorm:"default:0" json:"occurrence_count"`

	// Relationships
	Account   Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
