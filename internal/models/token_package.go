package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPackage is a purchasable bundle of market tokens shown on the storefront.
type TokenPackage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Tokens     int64     `gorm:"not null" json:"tokens"`
	PriceCents int64     `gorm:"not null" json:"price_cents"`
	SortOrder  int       `gorm:"index;not null;default:0" json:"sort_order"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TokenPackage) TableName() string { return "token_packages" }
