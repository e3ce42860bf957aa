package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral records one user referring another.
type Referral struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	ReferrerID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"referrer_id"`
	ReferredID   *uuid.UUID `gorm:"type:uuid" json:"referred_id,omitempty"`
	RewardTokens float64    `gorm:"not null;default:0" json:"reward_tokens"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Referral) TableName() string { return "referrals" }
