package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAsset is a user's holding of one collectible, with the price paid and
// the latest market price denormalised onto the row.
type UserAsset struct {
	ID            int64     `gorm:"primaryKey" json:"-"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CollectibleID string    `gorm:"type:text;index;not null" json:"id"`
	Quantity      float64   `gorm:"not null;default:0" json:"quantity"`
	UserPrice     float64   `gorm:"not null;default:0" json:"user_price"`
	CurrentPrice  float64   `gorm:"not null;default:0" json:"current_price"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserAsset) TableName() string { return "user_assets" }
