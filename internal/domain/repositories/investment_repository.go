package repositories

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// InvestmentRepository defines investment data operations
type InvestmentRepository interface {
	Create(ctx context.Context, investment *entities.Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Investment, int, error)
	// GetActiveByUserID returns every ACTIVE investment with its plan preloaded,
	// for portfolio aggregation.
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Investment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.InvestmentStatus) error
	SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string) error
	CountActive(ctx context.Context) (int64, error)
	SumActivePaise(ctx context.Context) (int64, error)
}
