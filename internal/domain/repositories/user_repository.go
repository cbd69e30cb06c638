package repositories

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)
	List(ctx context.Context, limit, offset int) ([]*entities.User, int, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateKYCStatus(ctx context.Context, id uuid.UUID, status entities.KYCStatus) error
	Count(ctx context.Context) (int64, error)
}
