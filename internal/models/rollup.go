package models

import (
	"time"

	"hearthbook/internal/uuid"

	"gorm.io/gorm"
)

// MonthlyRollup represents a per-category aggregate of one household's
// cleared transactions for one calendar month. A NULL CategoryID marks the
// household-wide total row, which additionally carries activity statistics
// that category rows omit. The full row set for a (household, year, month)
// is replaced wholesale on every rebuild.
type MonthlyRollup struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID string  `gorm:"type:uuid;not null;index:idx_rollups_household_month" json:"household_id"`
	Year        int     `gorm:"not null;index:idx_rollups_household_month" json:"year"`
	Month       int     `gorm:"not null;index:idx_rollups_household_month" json:"month"`
	CategoryID  *string `gorm:"type:uuid" json:"category_id,omitempty"`

	TotalIncome      int64 `gorm:"type:bigint;not null" json:"total_income"`
	TotalExpense     int64 `gorm:"type:bigint;not null" json:"total_expense"`
	TotalTransfers   int64 `gorm:"type:bigint;not null" json:"total_transfers"`
	TransactionCount int64 `gorm:"not null" json:"transaction_count"`

	// Total row only (CategoryID == nil); zero on category rows.
	ActiveDays         int   `json:"active_days"`
	LargestTransaction int64 `gorm:"type:bigint" json:"largest_transaction"`
	AverageTransaction int64 `gorm:"type:bigint" json:"average_transaction"`

	CreatedAt time.Time `json:"created_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (r *MonthlyRollup) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	return nil
}

// IsTotalRow reports whether this is the household-wide total row.
func (r *MonthlyRollup) IsTotalRow() bool {
	return r.CategoryID == nil
}
