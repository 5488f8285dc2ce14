package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Price type constants. Exactly one of Amount/Percent is meaningful,
// selected by Type.
const (
	PriceTypeFixedAmount = "fixed_amount"
	PriceTypePercent     = "percent"
)

// CustomerOptionValuePrice is the price of one option value, scoped by
// channel, optional product, and optional validity window. Its lookup
// identity is the tuple (value, channel, product, valid_from, valid_to);
// the unique index below keeps at most one row per tuple so the resolver
// never has to break ties by persistence order.
// Table: customer_option_value_prices
type CustomerOptionValuePrice struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	CustomerOptionValueID uint  `gorm:"not null;index;uniqueIndex:idx_option_value_prices_identity" json:"customer_option_value_id"`
	ChannelID             uint  `gorm:"not null;index;uniqueIndex:idx_option_value_prices_identity" json:"channel_id"`
	ProductID             *uint `gorm:"index;uniqueIndex:idx_option_value_prices_identity" json:"product_id,omitempty"`

	// Validity window; both set or both null
	ValidFrom *time.Time `gorm:"uniqueIndex:idx_option_value_prices_identity" json:"valid_from,omitempty"`
	ValidTo   *time.Time `gorm:"uniqueIndex:idx_option_value_prices_identity" json:"valid_to,omitempty"`

	Type    string           `gorm:"size:32;not null" json:"type" validate:"required,oneof=fixed_amount percent"`
	Amount  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount,omitempty"`
	Percent *decimal.Decimal `gorm:"type:numeric(6,4)" json:"percent,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	CustomerOptionValue CustomerOptionValue `gorm:"foreignKey:CustomerOptionValueID;constraint:OnDelete:CASCADE" json:"customer_option_value,omitempty"`
	Channel             Channel             `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"channel,omitempty"`
	Product             *Product            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (CustomerOptionValuePrice) TableName() string {
	return "customer_option_value_prices"
}

// BeforeCreate ensures UUID is set
func (p *CustomerOptionValuePrice) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// DateValid returns the validity window as a value object, nil when the
// price is not date-restricted.
func (p *CustomerOptionValuePrice) DateValid() *DateRange {
	if p.ValidFrom == nil || p.ValidTo == nil {
		return nil
	}
	return &DateRange{Start: p.ValidFrom.UTC(), End: p.ValidTo.UTC()}
}

// SetDateValid stores the validity window, clearing both bounds for nil.
func (p *CustomerOptionValuePrice) SetDateValid(dr *DateRange) {
	if dr == nil {
		p.ValidFrom = nil
		p.ValidTo = nil
		return
	}
	start := dr.Start.UTC()
	end := dr.End.UTC()
	p.ValidFrom = &start
	p.ValidTo = &end
}

// IsActiveAt reports whether the price applies at the given instant.
// Prices without a validity window always apply.
func (p *CustomerOptionValuePrice) IsActiveAt(t time.Time) bool {
	dr := p.DateValid()
	if dr == nil {
		return true
	}
	return dr.Contains(t)
}

// CustomerOptionValuePriceFilter represents filter criteria for price queries
type CustomerOptionValuePriceFilter struct {
	ID                    *uint   `json:"id,omitempty"`
	CustomerOptionValueID *uint   `json:"customer_option_value_id,omitempty"`
	ChannelID             *uint   `json:"channel_id,omitempty"`
	ProductID             *uint   `json:"product_id,omitempty"`
	Type                  *string `json:"type,omitempty"`
}
