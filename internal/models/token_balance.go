package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenBalance tracks a user's spendable market token balance.
type TokenBalance struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Balance   float64   `gorm:"not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TokenBalance) TableName() string { return "token_balances" }
