package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. The gateway only ever reads users; account
// management lives in the upstream service.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }
