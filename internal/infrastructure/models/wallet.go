package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	BalancePaise int64     `gorm:"type:bigint;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type WalletTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	WalletID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	AmountPaise int64     `gorm:"type:bigint;not null"`
	Description string    `gorm:"type:varchar(255)"`
	ReferenceID *string   `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt   time.Time

	Wallet Wallet `gorm:"foreignKey:WalletID"`
}
