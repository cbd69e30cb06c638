package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TicketStatus represents support ticket status
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusResolved TicketStatus = "RESOLVED"
	TicketStatusClosed   TicketStatus = "CLOSED"
)

// SupportTicket owns an ordered sequence of messages
type SupportTicket struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Subject   string       `json:"subject"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SupportMessage is one message on a ticket. AttachmentPath points into the
// private storage namespace and is never served directly.
type SupportMessage struct {
	ID             uuid.UUID   `json:"id"`
	TicketID       uuid.UUID   `json:"ticketId"`
	SenderID       uuid.UUID   `json:"senderId"`
	Body           string      `json:"body"`
	AttachmentPath null.String `json:"-"`
	HasAttachment  bool        `json:"hasAttachment"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// CreateTicketInput represents input for opening a ticket
type CreateTicketInput struct {
	Subject string `json:"subject" binding:"required,min=3,max=200"`
	Body    string `json:"body" binding:"required,min=1"`
}

// CreateMessageInput represents input for posting a message
type CreateMessageInput struct {
	Body string `json:"body" binding:"required,min=1"`
}

// MessagePage is one keyset-paginated slice of a ticket's messages, newest
// first. NextCursor is empty when the backlog is exhausted.
type MessagePage struct {
	Messages   []*SupportMessage `json:"messages"`
	NextCursor string            `json:"nextCursor,omitempty"`
}
