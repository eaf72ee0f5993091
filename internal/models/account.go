package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCrypto     AccountType = "crypto"
	AccountTypeDebt       AccountType = "debt"
	AccountTypeProperty   AccountType = "property"
)

// Account represents a financial account belonging to a household.
// Balance is the last-known stored value in cents; for investment and crypto
// accounts the live valuation comes from holdings priced against the asset
// price cache, with Balance as the degraded fallback.
type Account struct {
	Base
	HouseholdID       string      `gorm:"type:uuid;not null;index" json:"household_id"`
	Name              string      `gorm:"not null" json:"name"`
	Type              AccountType `gorm:"not null" json:"type"`
	Description       string      `json:"description"`
	Balance           int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency          string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive          bool        `gorm:"default:true" json:"is_active"`
	IncludeInNetWorth bool        `gorm:"default:true" json:"include_in_net_worth"`

	// Relationships
	Holdings     []Holding     `gorm:"foreignKey:AccountID" json:"holdings,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// IsMarketPriced reports whether the account's valuation is derived from
// holdings and cached prices rather than the stored balance.
func (a *Account) IsMarketPriced() bool {
	return a.Type == AccountTypeInvestment || a.Type == AccountTypeCrypto
}
