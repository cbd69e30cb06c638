package repositories

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// ReferralRepository defines referral data operations
type ReferralRepository interface {
	Create(ctx context.Context, referral *entities.Referral) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Referral, error)
	GetPending(ctx context.Context, limit int) ([]*entities.Referral, error)
	GetByReferrerID(ctx context.Context, referrerID uuid.UUID) ([]*entities.Referral, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}
