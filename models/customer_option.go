package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerOption represents a configurable attribute a shopper can set on
// a product, identified by a stable code. Created and edited
// administratively; the pricing pipeline only reads it.
// Table: customer_options
type CustomerOption struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code     string `gorm:"size:255;not null;uniqueIndex" json:"code"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Type     string `gorm:"size:32;not null" json:"type"`
	Required *bool  `gorm:"not null;default:false" json:"required"`

	// Per-type configuration seeded from the default configuration schema
	Configuration map[string]any `gorm:"type:jsonb;default:'{}'" json:"configuration"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Values []CustomerOptionValue `gorm:"foreignKey:CustomerOptionID" json:"values,omitempty"`
}

func (CustomerOption) TableName() string {
	return "customer_options"
}

// CustomerOptionFilter represents filter criteria for customer option queries
type CustomerOptionFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Code *string `json:"code,omitempty"`
	Type *string `json:"type,omitempty"`
}
