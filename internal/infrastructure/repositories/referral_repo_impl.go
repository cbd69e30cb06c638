package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/infrastructure/models"
)

// ReferralRepository implements referral data operations
type ReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create creates a new referral edge
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	m := &models.Referral{
		ID:         referral.ID,
		ReferrerID: referral.ReferrerID,
		ReferredID: referral.ReferredID,
		Status:     string(referral.Status),
		CreatedAt:  referral.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	referral.ID = m.ID
	return nil
}

// GetByID gets a referral by ID
func (r *ReferralRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Referral, error) {
	var m models.Referral
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetPending lists pending referrals for the maturation job
func (r *ReferralRepository) GetPending(ctx context.Context, limit int) ([]*entities.Referral, error) {
	var ms []models.Referral
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.ReferralStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var referrals []*entities.Referral
	for _, m := range ms {
		model := m
		referrals = append(referrals, r.toEntity(&model))
	}
	return referrals, nil
}

// GetByReferrerID lists referrals created by a user
func (r *ReferralRepository) GetByReferrerID(ctx context.Context, referrerID uuid.UUID) ([]*entities.Referral, error) {
	var ms []models.Referral
	if err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var referrals []*entities.Referral
	for _, m := range ms {
		model := m
		referrals = append(referrals, r.toEntity(&model))
	}
	return referrals, nil
}

// MarkProcessed transitions a pending referral to processed exactly once.
// The status guard makes the transition idempotent under retries.
func (r *ReferralRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Referral{}).
		Where("id = ? AND status = ?", id, string(entities.ReferralStatusPending)).
		Updates(map[string]interface{}{
			"status":       string(entities.ReferralStatusProcessed),
			"processed_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ReferralRepository) toEntity(m *models.Referral) *entities.Referral {
	return &entities.Referral{
		ID:          m.ID,
		ReferrerID:  m.ReferrerID,
		ReferredID:  m.ReferredID,
		Status:      entities.ReferralStatus(m.Status),
		ProcessedAt: m.ProcessedAt,
		CreatedAt:   m.CreatedAt,
	}
}
