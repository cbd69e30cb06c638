package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Plan struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name               string    `gorm:"type:varchar(200);not null"`
	Company            string    `gorm:"type:varchar(200);not null;index"`
	AssetClass         string    `gorm:"type:varchar(50);not null;index"`
	Sector             string    `gorm:"type:varchar(100);not null;index"`
	PricePerUnitPaise  int64     `gorm:"type:bigint;not null"`
	CurrentPricePaise  int64     `gorm:"type:bigint;not null"`
	MinInvestmentPaise int64     `gorm:"type:bigint;not null"`
	EligibilityConfig  string    `gorm:"type:jsonb;default:'{}'"`
	Status             string    `gorm:"type:varchar(50);not null;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}
