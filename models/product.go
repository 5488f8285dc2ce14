package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable product that customer option value prices
// can be scoped to. The pricing pipeline references products, it never
// mutates them.
// Table: products
type Product struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Code string    `gorm:"size:255;not null;uniqueIndex" json:"code"`
	Name string    `gorm:"size:255;not null" json:"name"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Prices []CustomerOptionValuePrice `gorm:"foreignKey:ProductID" json:"prices,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate ensures UUID is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Code *string `json:"code,omitempty"`
}
