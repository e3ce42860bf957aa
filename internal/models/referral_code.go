package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferralCode is an admin-issued invite code tied to a referring user.
type ReferralCode struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code         string    `gorm:"type:text;uniqueIndex;not null" json:"code"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	RewardTokens int64     `gorm:"not null;default:0" json:"reward_tokens"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Owner User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ReferralCode) TableName() string { return "admin_referral_codes" }
