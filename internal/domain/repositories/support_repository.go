package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// SupportTicketRepository defines support ticket data operations
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *entities.SupportTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.SupportTicket, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TicketStatus) error
	CountOpen(ctx context.Context) (int64, error)
}

// SupportMessageRepository defines support message data operations
type SupportMessageRepository interface {
	Create(ctx context.Context, message *entities.SupportMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportMessage, error)
	// ListBefore returns up to limit messages for the ticket ordered newest
	// first, strictly before the (createdAt, id) keyset position. A zero
	// createdAt means start from the newest message.
	ListBefore(ctx context.Context, ticketID uuid.UUID, createdAt time.Time, id uuid.UUID, limit int) ([]*entities.SupportMessage, error)
}
