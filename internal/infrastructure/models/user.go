package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name          string     `gorm:"type:varchar(100);not null"`
	PasswordHash  string     `gorm:"type:varchar(255);not null"`
	Role          string     `gorm:"type:varchar(50);not null;default:'USER'"`
	KYCStatus     string     `gorm:"type:varchar(50);default:'UNVERIFIED';index"`
	KYCVerifiedAt *time.Time `gorm:"type:timestamp"`
	DateOfBirth   *time.Time `gorm:"type:date"`
	ReferralCode  string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	ReferredByID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
