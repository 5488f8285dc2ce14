package models

import (
	"time"

	"gorm.io/gorm"
)

// Channel represents a sales context (storefront/market) that prices are
// scoped to.
// Table: channels
type Channel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string `gorm:"size:255;not null;uniqueIndex" json:"code"`
	Name         string `gorm:"size:255;not null" json:"name"`
	CurrencyCode string `gorm:"size:3;not null" json:"currency_code"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Channel) TableName() string {
	return "channels"
}

// ChannelFilter represents filter criteria for channel queries
type ChannelFilter struct {
	ID           *uint   `json:"id,omitempty"`
	Code         *string `json:"code,omitempty"`
	CurrencyCode *string `json:"currency_code,omitempty"`
}
