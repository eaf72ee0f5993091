package models

// Household is the sharing boundary for accounts, goals, budgets, and
// notifications. Every derived record the engine produces is scoped to one
// household.
type Household struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Currency string `gorm:"not null;default:'USD'" json:"currency"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Members  []User    `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
	Accounts []Account `gorm:"foreignKey:HouseholdID" json:"accounts,omitempty"`
}
