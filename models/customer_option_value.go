package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerOptionValue represents one selectable value of a select-type
// customer option. A value code is unique within its option, not globally.
// Table: customer_option_values
type CustomerOptionValue struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code             string `gorm:"size:255;not null;uniqueIndex:idx_option_values_code_option" json:"code"`
	Name             string `gorm:"size:255;not null" json:"name"`
	CustomerOptionID uint   `gorm:"not null;uniqueIndex:idx_option_values_code_option;index" json:"customer_option_id"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	CustomerOption CustomerOption             `gorm:"foreignKey:CustomerOptionID;constraint:OnDelete:CASCADE" json:"customer_option,omitempty"`
	Prices         []CustomerOptionValuePrice `gorm:"foreignKey:CustomerOptionValueID" json:"prices,omitempty"`
}

func (CustomerOptionValue) TableName() string {
	return "customer_option_values"
}

// CustomerOptionValueFilter represents filter criteria for value queries
type CustomerOptionValueFilter struct {
	ID               *uint   `json:"id,omitempty"`
	Code             *string `json:"code,omitempty"`
	CustomerOptionID *uint   `json:"customer_option_id,omitempty"`
}
