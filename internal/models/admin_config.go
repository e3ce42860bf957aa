package models

import "time"

// AdminConfig is a key/value switch managed through the admin panel,
// e.g. maintenance_mode.
type AdminConfig struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ConfigKey   string    `gorm:"type:text;uniqueIndex;not null" json:"config_key"`
	ConfigValue string    `gorm:"type:text;not null" json:"config_value"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AdminConfig) TableName() string { return "admin_configs" }
