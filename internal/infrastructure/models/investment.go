package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Investment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID      uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountPaise int64     `gorm:"type:bigint;not null"`
	Units       int64     `gorm:"type:bigint;not null"`
	Status      string    `gorm:"type:varchar(50);not null;index"`
	PaymentRef  *string   `gorm:"type:varchar(255);index"`
	ClosedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Plan Plan `gorm:"foreignKey:PlanID"`
}
