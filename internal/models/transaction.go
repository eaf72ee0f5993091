package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus represents the settlement state of a transaction.
// Only cleared transactions count toward rollups and budget spend.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCleared   TransactionStatus = "cleared"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction represents a ledger entry for a household account.
// Amounts are stored in cents and are always positive; Type carries the sign.
type Transaction struct {
	Base
	HouseholdID string            `gorm:"type:uuid;not null;index" json:"household_id"`
	AccountID   string            `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  *string           `gorm:"type:uuid" json:"category_id,omitempty"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Status      TransactionStatus `gorm:"not null;default:'cleared'" json:"status"`
	Amount      int64             `gorm:"type:bigint;not null" json:"amount"`
	Description string            `json:"description"`
	Date        time.Time         `gorm:"not null;index" json:"date"`

	// For transfers
	ToAccountID *string `gorm:"type:uuid" json:"to_account_id,omitempty"`

	// Relationships
	Account   Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
