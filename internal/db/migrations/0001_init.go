package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

// Model definitions are frozen copies of internal/models at the time this
// migration was written; later schema changes get their own migration.

type AuthToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Token     string     `gorm:"type:text;uniqueIndex;not null"`
	Subject   string     `gorm:"type:text;index;not null"`
	Purpose   string     `gorm:"type:text;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	UsedAt    *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (AuthToken) TableName() string { return "auth_tokens" }

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

type TokenBalance struct {
	ID        int64     `gorm:"type:bigserial;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   float64   `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type UserAsset struct {
	ID            int64     `gorm:"type:bigserial;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CollectibleID string    `gorm:"type:text;index;not null"`
	Quantity      float64   `gorm:"not null;default:0"`
	UserPrice     float64   `gorm:"not null;default:0"`
	CurrentPrice  float64   `gorm:"not null;default:0"`
	UpdatedAt     time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type Referral struct {
	ID           int64      `gorm:"type:bigserial;primaryKey"`
	ReferrerID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ReferredID   *uuid.UUID `gorm:"type:uuid"`
	RewardTokens float64    `gorm:"not null;default:0"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

type Transaction struct {
	ID              int64     `gorm:"type:bigserial;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null"`
	CollectibleID   string    `gorm:"type:text;index"`
	TransactionType string    `gorm:"type:text;not null"`
	Amount          float64   `gorm:"not null;default:0"`
	Price           float64   `gorm:"not null;default:0"`
	Description     string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;index"`
}

type Collectible struct {
	ID           string            `gorm:"type:text;primaryKey"`
	Name         string            `gorm:"type:text;not null"`
	CurrentPrice float64           `gorm:"not null;default:0"`
	ImageURL     string            `gorm:"type:text"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb"`
	UpdatedAt    time.Time         `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type AdminConfig struct {
	ID          int64     `gorm:"type:bigserial;primaryKey"`
	ConfigKey   string    `gorm:"type:text;uniqueIndex;not null"`
	ConfigValue string    `gorm:"type:text;not null"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type TokenPackage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:text;not null"`
	Tokens     int64     `gorm:"not null"`
	PriceCents int64     `gorm:"not null"`
	SortOrder  int       `gorm:"index;not null;default:0"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	UpdatedAt  time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime"`
}

type ReferralCode struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code         string    `gorm:"type:text;uniqueIndex;not null"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	RewardTokens int64     `gorm:"not null;default:0"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Owner        User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ReferralCode) TableName() string { return "admin_referral_codes" }

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&AuthToken{},
		&User{},
		&TokenBalance{},
		&UserAsset{},
		&Referral{},
		&Transaction{},
		&Collectible{},
		&AdminConfig{},
		&TokenPackage{},
		&ReferralCode{},
	); err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().CreateConstraint(&ReferralCode{}, "Owner")
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().DropTable(
		&ReferralCode{},
		&TokenPackage{},
		&AdminConfig{},
		&Collectible{},
		&Transaction{},
		&Referral{},
		&UserAsset{},
		&TokenBalance{},
		&User{},
		&AuthToken{},
	)
}
