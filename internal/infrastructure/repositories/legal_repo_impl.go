package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/infrastructure/models"
)

// LegalAgreementRepository implements legal agreement data operations
type LegalAgreementRepository struct {
	db *gorm.DB
}

// NewLegalAgreementRepository creates a new legal agreement repository
func NewLegalAgreementRepository(db *gorm.DB) *LegalAgreementRepository {
	return &LegalAgreementRepository{db: db}
}

// Create creates a new legal agreement
func (r *LegalAgreementRepository) Create(ctx context.Context, agreement *entities.LegalAgreement) error {
	m := &models.LegalAgreement{
		ID:          agreement.ID,
		Title:       agreement.Title,
		Version:     agreement.Version,
		Body:        agreement.Body,
		PublishedAt: agreement.PublishedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	agreement.ID = m.ID
	agreement.CreatedAt = m.CreatedAt
	agreement.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID retrieves an agreement by ID
func (r *LegalAgreementRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LegalAgreement, error) {
	var m models.LegalAgreement
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists all agreements, newest version first
func (r *LegalAgreementRepository) List(ctx context.Context) ([]*entities.LegalAgreement, error) {
	var ms []models.LegalAgreement
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	var agreements []*entities.LegalAgreement
	for _, m := range ms {
		model := m
		agreements = append(agreements, r.toEntity(&model))
	}
	return agreements, nil
}

// UpsertSignature keeps one signature row per (user, agreement) pair.
// Re-acceptance overwrites version and forensic metadata in place.
func (r *LegalAgreementRepository) UpsertSignature(ctx context.Context, signature *entities.UserAgreementSignature) error {
	m := &models.UserAgreementSignature{
		ID:            signature.ID,
		UserID:        signature.UserID,
		AgreementID:   signature.AgreementID,
		VersionSigned: signature.VersionSigned,
		IPAddress:     signature.IPAddress,
		UserAgent:     signature.UserAgent,
		SignedAt:      signature.SignedAt,
	}

	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "agreement_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version_signed", "ip_address", "user_agent", "signed_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	signature.ID = m.ID
	return nil
}

// GetSignature retrieves the signature row for a (user, agreement) pair
func (r *LegalAgreementRepository) GetSignature(ctx context.Context, userID, agreementID uuid.UUID) (*entities.UserAgreementSignature, error) {
	var m models.UserAgreementSignature
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ? AND agreement_id = ?", userID, agreementID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.UserAgreementSignature{
		ID:            m.ID,
		UserID:        m.UserID,
		AgreementID:   m.AgreementID,
		VersionSigned: m.VersionSigned,
		IPAddress:     m.IPAddress,
		UserAgent:     m.UserAgent,
		SignedAt:      m.SignedAt,
	}, nil
}

func (r *LegalAgreementRepository) toEntity(m *models.LegalAgreement) *entities.LegalAgreement {
	return &entities.LegalAgreement{
		ID:          m.ID,
		Title:       m.Title,
		Version:     m.Version,
		Body:        m.Body,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
