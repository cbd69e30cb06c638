package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/infrastructure/models"
)

// InvestmentRepository implements investment data operations
type InvestmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// Create creates a new investment
func (r *InvestmentRepository) Create(ctx context.Context, investment *entities.Investment) error {
	m := &models.Investment{
		ID:          investment.ID,
		UserID:      investment.UserID,
		PlanID:      investment.PlanID,
		AmountPaise: investment.AmountPaise,
		Units:       investment.Units,
		Status:      string(investment.Status),
		PaymentRef:  investment.PaymentRef.Ptr(),
		CreatedAt:   investment.CreatedAt,
		UpdatedAt:   investment.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	investment.ID = m.ID
	return nil
}

// GetByID gets an investment by ID with its plan preloaded
func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error) {
	var m models.Investment
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Preload("Plan").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets investments for a user with pagination
func (r *InvestmentRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Investment, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Investment{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Investment
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var investments []*entities.Investment
	for _, m := range ms {
		model := m
		investments = append(investments, r.toEntity(&model))
	}
	return investments, int(total), nil
}

// GetActiveByUserID gets every active investment for a user with plans preloaded
func (r *InvestmentRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Investment, error) {
	var ms []models.Investment
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ?", userID, string(entities.InvestmentStatusActive)).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var investments []*entities.Investment
	for _, m := range ms {
		model := m
		investments = append(investments, r.toEntity(&model))
	}
	return investments, nil
}

// UpdateStatus transitions the investment status
func (r *InvestmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.InvestmentStatus) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if status == entities.InvestmentStatusClosed {
		updates["closed_at"] = time.Now()
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetPaymentRef records the gateway payment reference
func (r *InvestmentRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, paymentRef string) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_ref": paymentRef,
			"updated_at":  time.Now(),
		}).Error
}

// CountActive counts active investments platform-wide
func (r *InvestmentRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Investment{}).
		Where("status = ?", string(entities.InvestmentStatusActive)).
		Count(&total).Error
	return total, err
}

// SumActivePaise sums the invested paise across all active investments.
// The sum stays in integer minor units; no float accumulation.
func (r *InvestmentRepository) SumActivePaise(ctx context.Context) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).Model(&models.Investment{}).
		Where("status = ?", string(entities.InvestmentStatusActive)).
		Select("SUM(amount_paise)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *InvestmentRepository) toEntity(m *models.Investment) *entities.Investment {
	inv := &entities.Investment{
		ID:          m.ID,
		UserID:      m.UserID,
		PlanID:      m.PlanID,
		AmountPaise: m.AmountPaise,
		Units:       m.Units,
		Status:      entities.InvestmentStatus(m.Status),
		PaymentRef:  null.StringFromPtr(m.PaymentRef),
		ClosedAt:    m.ClosedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.Plan.ID != uuid.Nil {
		inv.Plan = &entities.Plan{
			ID:                m.Plan.ID,
			Name:              m.Plan.Name,
			Company:           m.Plan.Company,
			AssetClass:        entities.AssetClass(m.Plan.AssetClass),
			Sector:            m.Plan.Sector,
			PricePerUnitPaise: m.Plan.PricePerUnitPaise,
			CurrentPricePaise: m.Plan.CurrentPricePaise,
			Status:            entities.PlanStatus(m.Plan.Status),
		}
	}

	return inv
}
