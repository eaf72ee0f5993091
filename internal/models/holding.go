package models

import (
	"time"

	"hearthbook/internal/uuid"

	"gorm.io/gorm"
)

// HoldingType represents the kind of market-priced asset held.
type HoldingType string

const (
	HoldingTypeEquity HoldingType = "equity"
	HoldingTypeCrypto HoldingType = "crypto"
)

// Holding represents a market-priced position in an investment or crypto
// account. Valuation = Quantity * latest cached AssetPrice for the symbol.
type Holding struct {
	Base
	AccountID string      `gorm:"type:uuid;not null;index" json:"account_id"`
	Symbol    string      `gorm:"not null" json:"symbol"`
	Type      HoldingType `gorm:"not null" json:"type"`
	Quantity  float64     `gorm:"not null" json:"quantity"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// AssetPrice represents a cached unit price for a symbol, recorded by the
// external price oracle. This is immutable time-series data — no Base embed,
// no soft deletes. The engine reads the newest row per symbol and never
// writes this table.
type AssetPrice struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol     string    `gorm:"not null;index" json:"symbol"`
	Price      int64     `gorm:"type:bigint;not null" json:"price"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *AssetPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
