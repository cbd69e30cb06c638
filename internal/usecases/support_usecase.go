package usecases

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/repositories"
	"preipo-sip.backend/internal/infrastructure/storage"
	"preipo-sip.backend/pkg/signedurl"
	"preipo-sip.backend/pkg/utils"
)

const (
	defaultMessagePageSize = 20
	maxMessagePageSize     = 100
)

// MessageNotifier is called after a message is persisted so connected chat
// clients see it without polling.
type MessageNotifier interface {
	NotifyMessage(ticketID uuid.UUID, message *entities.SupportMessage)
}

// SupportUsecase handles tickets, ticket chat and private attachments
type SupportUsecase struct {
	ticketRepo  repositories.SupportTicketRepository
	messageRepo repositories.SupportMessageRepository
	store       *storage.AttachmentStore
	signer      *signedurl.Signer
	signedTTL   time.Duration
	notifier    MessageNotifier
	audit       *AuditUsecase
}

// NewSupportUsecase creates a new support usecase
func NewSupportUsecase(
	ticketRepo repositories.SupportTicketRepository,
	messageRepo repositories.SupportMessageRepository,
	store *storage.AttachmentStore,
	signer *signedurl.Signer,
	signedTTL time.Duration,
	notifier MessageNotifier,
	audit *AuditUsecase,
) *SupportUsecase {
	return &SupportUsecase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		store:       store,
		signer:      signer,
		signedTTL:   signedTTL,
		notifier:    notifier,
		audit:       audit,
	}
}

// CreateTicket opens a ticket with its first message
func (u *SupportUsecase) CreateTicket(ctx context.Context, userID uuid.UUID, input *entities.CreateTicketInput) (*entities.SupportTicket, error) {
	ticket := &entities.SupportTicket{
		ID:      uuid.New(),
		UserID:  userID,
		Subject: input.Subject,
		Status:  entities.TicketStatusOpen,
	}
	if err := u.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	message := &entities.SupportMessage{
		ID:       uuid.New(),
		TicketID: ticket.ID,
		SenderID: userID,
		Body:     input.Body,
	}
	if err := u.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "ticket.created", "SupportTicket", ticket.ID.String(),
		nil,
		map[string]interface{}{"subject": ticket.Subject},
		nil,
	)
	return ticket, nil
}

// GetTicket returns a ticket, enforcing ownership for non-admin callers
func (u *SupportUsecase) GetTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*entities.SupportTicket, error) {
	ticket, err := u.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && ticket.UserID != userID {
		// hide the ticket's existence from non-participants
		return nil, domainerrors.ErrNotFound
	}
	return ticket, nil
}

// ListTickets returns the user's tickets with pagination
func (u *SupportUsecase) ListTickets(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.SupportTicket, int, error) {
	return u.ticketRepo.GetByUserID(ctx, userID, limit, offset)
}

// UpdateStatus transitions a ticket through its workflow. Admin only.
func (u *SupportUsecase) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status entities.TicketStatus) error {
	switch status {
	case entities.TicketStatusOpen, entities.TicketStatusPending, entities.TicketStatusResolved, entities.TicketStatusClosed:
	default:
		return domainerrors.BadRequest("unknown ticket status")
	}

	ticket, err := u.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.Status == status {
		return nil
	}
	if err := u.ticketRepo.UpdateStatus(ctx, ticketID, status); err != nil {
		return err
	}

	u.audit.Record(ctx, "ticket.status_changed", "SupportTicket", ticketID.String(),
		map[string]interface{}{"status": string(ticket.Status)},
		map[string]interface{}{"status": string(status)},
		nil,
	)
	return nil
}

// PostMessage appends a message to a ticket, optionally storing an attachment
// in the private namespace. attachment may be nil.
func (u *SupportUsecase) PostMessage(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool, body, attachmentName string, attachment io.Reader) (*entities.SupportMessage, error) {
	ticket, err := u.GetTicket(ctx, userID, ticketID, isAdmin)
	if err != nil {
		return nil, err
	}
	if ticket.Status == entities.TicketStatusClosed {
		return nil, domainerrors.BadRequest("ticket is closed")
	}

	message := &entities.SupportMessage{
		ID:       uuid.New(),
		TicketID: ticket.ID,
		SenderID: userID,
		Body:     body,
	}
	if attachment != nil {
		rel, err := u.store.Save(ticket.ID, attachmentName, attachment)
		if err != nil {
			return nil, domainerrors.InternalError(err)
		}
		message.AttachmentPath = null.StringFrom(rel)
		message.HasAttachment = true
	}
	if err := u.messageRepo.Create(ctx, message); err != nil {
		if message.HasAttachment {
			_ = u.store.Delete(message.AttachmentPath.String)
		}
		return nil, err
	}

	if u.notifier != nil {
		u.notifier.NotifyMessage(ticket.ID, message)
	}
	return message, nil
}

// ListMessages returns one keyset page of a ticket's messages, newest first
func (u *SupportUsecase) ListMessages(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool, cursor string, limit int) (*entities.MessagePage, error) {
	if _, err := u.GetTicket(ctx, userID, ticketID, isAdmin); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	var after time.Time
	var afterID uuid.UUID
	if c, err := utils.DecodeCursor(cursor); err != nil {
		return nil, domainerrors.BadRequest("invalid cursor")
	} else if c != nil {
		after, afterID = c.CreatedAt, c.ID
	}

	// fetch one extra row to know whether another page exists
	messages, err := u.messageRepo.ListBefore(ctx, ticketID, after, afterID, limit+1)
	if err != nil {
		return nil, err
	}

	page := &entities.MessagePage{Messages: messages}
	if len(messages) > limit {
		page.Messages = messages[:limit]
		last := page.Messages[limit-1]
		page.NextCursor = utils.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

// AttachmentURL mints a time-boxed signed path for a message attachment.
// Messages without an attachment report not found.
func (u *SupportUsecase) AttachmentURL(ctx context.Context, userID, ticketID, messageID uuid.UUID, isAdmin bool) (string, error) {
	if _, err := u.GetTicket(ctx, userID, ticketID, isAdmin); err != nil {
		return "", err
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return "", err
	}
	if message.TicketID != ticketID || !message.HasAttachment {
		return "", domainerrors.NotFound("message has no attachment")
	}
	// the DB flag can outlive the file; never mint a link that will 404
	if !u.store.Exists(message.AttachmentPath.String) {
		return "", domainerrors.NotFound("attachment no longer available")
	}

	path := fmt.Sprintf("/api/v1/support/tickets/%s/messages/%s/attachment", ticketID, messageID)
	return path + "?" + u.signer.Sign(path, u.signedTTL), nil
}

// OpenAttachment verifies a signed request and streams the attachment.
// Authorization lives in the signature; no session is required.
func (u *SupportUsecase) OpenAttachment(ctx context.Context, ticketID, messageID uuid.UUID, path string, expires int64, signature string) (io.ReadCloser, error) {
	if err := u.signer.Verify(path, expires, signature); err != nil {
		return nil, domainerrors.Forbidden("invalid or expired attachment link")
	}

	message, err := u.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.TicketID != ticketID || !message.HasAttachment {
		return nil, domainerrors.NotFound("message has no attachment")
	}
	return u.store.Open(message.AttachmentPath.String)
}
