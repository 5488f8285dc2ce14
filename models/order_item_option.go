package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItemOption persists one chosen customer option configuration on an
// order item. Codes, type and price are copied at creation time so the
// order stays intact when options or prices change later.
// Table: order_item_options
type OrderItemOption struct {
	ID          uint `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderItemID uint `gorm:"not null;index" json:"order_item_id"`

	CustomerOptionID   uint   `gorm:"not null;index" json:"customer_option_id"`
	CustomerOptionCode string `gorm:"size:255;not null" json:"customer_option_code"`
	CustomerOptionType string `gorm:"size:32;not null" json:"customer_option_type"`

	// Set for select-type options only
	CustomerOptionValueID   *uint   `gorm:"index" json:"customer_option_value_id,omitempty"`
	CustomerOptionValueCode *string `gorm:"size:255" json:"customer_option_value_code,omitempty"`

	// The raw value as entered by the shopper (or the resolved value code)
	OptionValue string `gorm:"size:1024;not null" json:"option_value"`

	// Price copied from the matching CustomerOptionValuePrice, if any
	PriceType    *string          `gorm:"size:32" json:"price_type,omitempty"`
	FixedPrice   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"fixed_price,omitempty"`
	PricePercent *decimal.Decimal `gorm:"type:numeric(6,4)" json:"price_percent,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	CustomerOption      CustomerOption       `gorm:"foreignKey:CustomerOptionID" json:"customer_option,omitempty"`
	CustomerOptionValue *CustomerOptionValue `gorm:"foreignKey:CustomerOptionValueID" json:"customer_option_value,omitempty"`
}

func (OrderItemOption) TableName() string {
	return "order_item_options"
}

// OrderItemOptionFilter represents filter criteria for order item option queries
type OrderItemOptionFilter struct {
	ID               *uint `json:"id,omitempty"`
	OrderItemID      *uint `json:"order_item_id,omitempty"`
	CustomerOptionID *uint `json:"customer_option_id,omitempty"`
}
