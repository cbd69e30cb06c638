package repositories

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// LegalAgreementRepository defines legal agreement data operations
type LegalAgreementRepository interface {
	Create(ctx context.Context, agreement *entities.LegalAgreement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LegalAgreement, error)
	List(ctx context.Context) ([]*entities.LegalAgreement, error)
	// UpsertSignature keeps exactly one signature row per (user, agreement)
	// pair, overwriting version and forensic metadata on re-acceptance.
	UpsertSignature(ctx context.Context, signature *entities.UserAgreementSignature) error
	GetSignature(ctx context.Context, userID, agreementID uuid.UUID) (*entities.UserAgreementSignature, error)
}
