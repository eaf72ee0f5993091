package models

import (
	"encoding/json"
	"time"

	"hearthbook/internal/uuid"

	"gorm.io/gorm"
)

// NetWorthSnapshot represents a point-in-time net worth record for a
// household. (HouseholdID, Day) is a natural key: a second build on the same
// calendar day updates the existing row in place. This is derived time-series
// data — no Base embed, no soft deletes.
type NetWorthSnapshot struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_snapshots_household_day" json:"household_id"`
	Day              time.Time `gorm:"not null;uniqueIndex:uq_snapshots_household_day" json:"day"`
	TotalAssets      int64     `gorm:"type:bigint;not null" json:"total_assets"`
	TotalLiabilities int64     `gorm:"type:bigint;not null" json:"total_liabilities"`
	NetWorth         int64     `gorm:"type:bigint;not null" json:"net_worth"`
	Breakdown        string    `gorm:"type:text" json:"breakdown"` // JSON: account type -> cents
	Currency         string    `gorm:"not null;default:'USD'" json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *NetWorthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

// SetBreakdown serializes the per-account-type valuation map.
func (s *NetWorthSnapshot) SetBreakdown(m map[AccountType]int64) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.Breakdown = string(raw)
	return nil
}

// GetBreakdown deserializes the per-account-type valuation map.
func (s *NetWorthSnapshot) GetBreakdown() (map[AccountType]int64, error) {
	m := make(map[AccountType]int64)
	if s.Breakdown == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s.Breakdown), &m); err != nil {
		return nil, err
	}
	return m, nil
}
