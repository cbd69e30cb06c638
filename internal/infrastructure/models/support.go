package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupportTicket struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Subject   string    `gorm:"type:varchar(200);not null"`
	Status    string    `gorm:"type:varchar(50);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type SupportMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TicketID       uuid.UUID `gorm:"type:uuid;not null;index:idx_support_messages_keyset,priority:1"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	Body           string    `gorm:"type:text;not null"`
	AttachmentPath *string   `gorm:"type:varchar(512)"`
	CreatedAt      time.Time `gorm:"index:idx_support_messages_keyset,priority:2"`

	Ticket SupportTicket `gorm:"foreignKey:TicketID"`
}
