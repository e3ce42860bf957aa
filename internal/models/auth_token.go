package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is a single-use capability grant scoped to a (subject, purpose) pair.
// UsedAt is set exactly once at consumption; a nil UsedAt means the token is
// still pending. No other column is ever updated after insert.
type AuthToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Token     string     `gorm:"type:text;uniqueIndex;not null"`
	Subject   string     `gorm:"type:text;index;not null"`
	Purpose   string     `gorm:"type:text;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	UsedAt    *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (AuthToken) TableName() string { return "auth_tokens" }
