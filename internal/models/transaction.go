package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a buy/sell/credit movement on a user's account.
type Transaction struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CollectibleID   string    `gorm:"type:text;index" json:"collectible_id"`
	TransactionType string    `gorm:"type:text;not null" json:"transaction_type"`
	Amount          float64   `gorm:"not null;default:0" json:"amount"`
	Price           float64   `gorm:"not null;default:0" json:"price"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
