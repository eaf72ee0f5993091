package models

import "time"

// Goal represents a savings goal shared within a household. Milestone
// notifications fire as CurrentAmount crosses 25/50/75/100 percent of
// TargetAmount.
type Goal struct {
	Base
	HouseholdID   string     `gorm:"type:uuid;not null;index" json:"household_id"`
	Name          string     `gorm:"not null" json:"name"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
}

// ProgressPercent returns goal progress as a percentage of the target.
func (g *Goal) ProgressPercent() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
}
