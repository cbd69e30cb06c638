package models

import (
	"time"

	"github.com/google/uuid"
)

type Referral struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ReferrerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ReferredID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status      string    `gorm:"type:varchar(50);not null;index"`
	ProcessedAt *time.Time
	CreatedAt   time.Time
}
