package repositories

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// PlanRepository defines plan data operations
type PlanRepository interface {
	Create(ctx context.Context, plan *entities.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
	List(ctx context.Context, onlyOpen bool) ([]*entities.Plan, error)
	Update(ctx context.Context, plan *entities.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}
