package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/infrastructure/models"
)

// SupportTicketRepository implements support ticket data operations
type SupportTicketRepository struct {
	db *gorm.DB
}

// NewSupportTicketRepository creates a new support ticket repository
func NewSupportTicketRepository(db *gorm.DB) *SupportTicketRepository {
	return &SupportTicketRepository{db: db}
}

// Create creates a new support ticket
func (r *SupportTicketRepository) Create(ctx context.Context, ticket *entities.SupportTicket) error {
	m := &models.SupportTicket{
		ID:      ticket.ID,
		UserID:  ticket.UserID,
		Subject: ticket.Subject,
		Status:  string(ticket.Status),
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	ticket.ID = m.ID
	ticket.CreatedAt = m.CreatedAt
	ticket.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID retrieves a ticket by ID
func (r *SupportTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	var m models.SupportTicket
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toTicketEntity(&m), nil
}

// GetByUserID retrieves a user's tickets, newest first
func (r *SupportTicketRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.SupportTicket, int, error) {
	q := r.db.WithContext(ctx).Model(&models.SupportTicket{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.SupportTicket
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var tickets []*entities.SupportTicket
	for _, m := range ms {
		model := m
		tickets = append(tickets, r.toTicketEntity(&model))
	}
	return tickets, int(total), nil
}

// UpdateStatus moves a ticket to a new status
func (r *SupportTicketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TicketStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.SupportTicket{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountOpen counts tickets not yet resolved or closed
func (r *SupportTicketRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupportTicket{}).
		Where("status IN ?", []string{string(entities.TicketStatusOpen), string(entities.TicketStatusPending)}).
		Count(&count).Error
	return count, err
}

func (r *SupportTicketRepository) toTicketEntity(m *models.SupportTicket) *entities.SupportTicket {
	return &entities.SupportTicket{
		ID:        m.ID,
		UserID:    m.UserID,
		Subject:   m.Subject,
		Status:    entities.TicketStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// SupportMessageRepository implements support message data operations
type SupportMessageRepository struct {
	db *gorm.DB
}

// NewSupportMessageRepository creates a new support message repository
func NewSupportMessageRepository(db *gorm.DB) *SupportMessageRepository {
	return &SupportMessageRepository{db: db}
}

// Create creates a new support message
func (r *SupportMessageRepository) Create(ctx context.Context, message *entities.SupportMessage) error {
	m := &models.SupportMessage{
		ID:             message.ID,
		TicketID:       message.TicketID,
		SenderID:       message.SenderID,
		Body:           message.Body,
		AttachmentPath: message.AttachmentPath.Ptr(),
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	message.ID = m.ID
	message.CreatedAt = m.CreatedAt
	return nil
}

// GetByID retrieves a message by ID
func (r *SupportMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportMessage, error) {
	var m models.SupportMessage
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toMessageEntity(&m), nil
}

// ListBefore returns messages strictly before the (createdAt, id) position,
// newest first. A zero createdAt starts from the newest message.
func (r *SupportMessageRepository) ListBefore(ctx context.Context, ticketID uuid.UUID, createdAt time.Time, id uuid.UUID, limit int) ([]*entities.SupportMessage, error) {
	q := r.db.WithContext(ctx).Model(&models.SupportMessage{}).
		Where("ticket_id = ?", ticketID)
	if !createdAt.IsZero() {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}

	var ms []models.SupportMessage
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}

	var messages []*entities.SupportMessage
	for _, m := range ms {
		model := m
		messages = append(messages, r.toMessageEntity(&model))
	}
	return messages, nil
}

func (r *SupportMessageRepository) toMessageEntity(m *models.SupportMessage) *entities.SupportMessage {
	return &entities.SupportMessage{
		ID:             m.ID,
		TicketID:       m.TicketID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		AttachmentPath: null.StringFromPtr(m.AttachmentPath),
		HasAttachment:  m.AttachmentPath != nil,
		CreatedAt:      m.CreatedAt,
	}
}
