package models

import (
	"time"

	"github.com/google/uuid"
)

type LegalAgreement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Version     int       `gorm:"not null;default:1"`
	Body        string    `gorm:"type:text;not null"`
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UserAgreementSignature struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_agreement,priority:1"`
	AgreementID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_agreement,priority:2"`
	VersionSigned int       `gorm:"not null"`
	IPAddress     string    `gorm:"type:varchar(64)"`
	UserAgent     string    `gorm:"type:varchar(512)"`
	SignedAt      time.Time `gorm:"not null"`
}
