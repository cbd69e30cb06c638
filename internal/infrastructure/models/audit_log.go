package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is append-only: no UpdatedAt, no soft delete.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Action    string     `gorm:"type:varchar(100);not null;index"`
	ModelType string     `gorm:"type:varchar(100);index"`
	ModelID   string     `gorm:"type:varchar(64);index"`
	OldValues string     `gorm:"type:jsonb;default:'{}'"`
	NewValues string     `gorm:"type:jsonb;default:'{}'"`
	Metadata  string     `gorm:"type:jsonb;default:'{}'"`
	ActorID   *uuid.UUID `gorm:"type:uuid;index"`
	IPAddress string     `gorm:"type:varchar(64)"`
	UserAgent string     `gorm:"type:varchar(512)"`
	CreatedAt time.Time  `gorm:"index"`
}
