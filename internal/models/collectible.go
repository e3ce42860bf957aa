package models

import (
	"time"

	"gorm.io/datatypes"
)

// Collectible is a tradeable item. IDs are human-readable slugs
// (e.g. "genesect") shared with the upstream market API.
type Collectible struct {
	ID           string            `gorm:"type:text;primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	CurrentPrice float64           `gorm:"not null;default:0" json:"current_price"`
	ImageURL     string            `gorm:"type:text" json:"image_url"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Collectible) TableName() string { return "collectibles" }
