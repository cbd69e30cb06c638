package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/repositories"
)

// LegalUsecase handles versioned agreements and user signatures
type LegalUsecase struct {
	legalRepo repositories.LegalAgreementRepository
	audit     *AuditUsecase
	now       func() time.Time
}

// NewLegalUsecase creates a new legal usecase
func NewLegalUsecase(legalRepo repositories.LegalAgreementRepository, audit *AuditUsecase) *LegalUsecase {
	return &LegalUsecase{legalRepo: legalRepo, audit: audit, now: time.Now}
}

// Publish adds a new agreement version. Admin only.
func (u *LegalUsecase) Publish(ctx context.Context, title, body string, version int) (*entities.LegalAgreement, error) {
	if version < 1 {
		return nil, domainerrors.BadRequest("version must be positive")
	}

	publishedAt := u.now()
	agreement := &entities.LegalAgreement{
		ID:          uuid.New(),
		Title:       title,
		Version:     version,
		Body:        body,
		PublishedAt: &publishedAt,
	}
	if err := u.legalRepo.Create(ctx, agreement); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "agreement.published", "LegalAgreement", agreement.ID.String(),
		nil,
		map[string]interface{}{"title": title, "version": version},
		nil,
	)
	return agreement, nil
}

// List returns all agreements
func (u *LegalUsecase) List(ctx context.Context) ([]*entities.LegalAgreement, error) {
	return u.legalRepo.List(ctx)
}

// GetByID returns one agreement with its body
func (u *LegalUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.LegalAgreement, error) {
	return u.legalRepo.GetByID(ctx, id)
}

// Accept records the user's signature on an agreement. Re-acceptance
// overwrites the previous signature row, so each pair keeps exactly one
// row carrying the latest version and forensics.
func (u *LegalUsecase) Accept(ctx context.Context, userID, agreementID uuid.UUID) (*entities.UserAgreementSignature, error) {
	agreement, err := u.legalRepo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	ip, _ := ctx.Value(AuditIPKey).(string)
	userAgent, _ := ctx.Value(AuditUserAgentKey).(string)

	signature := &entities.UserAgreementSignature{
		ID:            uuid.New(),
		UserID:        userID,
		AgreementID:   agreement.ID,
		VersionSigned: agreement.Version,
		IPAddress:     ip,
		UserAgent:     userAgent,
		SignedAt:      u.now(),
	}
	if err := u.legalRepo.UpsertSignature(ctx, signature); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "agreement.accepted", "LegalAgreement", agreement.ID.String(),
		nil,
		map[string]interface{}{"version_signed": agreement.Version},
		nil,
	)
	return signature, nil
}

// SignatureStatus reports whether the user has signed the agreement and at
// which version. A missing signature is not an error.
func (u *LegalUsecase) SignatureStatus(ctx context.Context, userID, agreementID uuid.UUID) (*entities.UserAgreementSignature, error) {
	sig, err := u.legalRepo.GetSignature(ctx, userID, agreementID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sig, nil
}
