package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/infrastructure/models"
)

// PlanRepository implements plan data operations
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create creates a new plan
func (r *PlanRepository) Create(ctx context.Context, plan *entities.Plan) error {
	cfg, err := marshalConfig(plan.EligibilityConfig)
	if err != nil {
		return err
	}

	m := &models.Plan{
		ID:                 plan.ID,
		Name:               plan.Name,
		Company:            plan.Company,
		AssetClass:         string(plan.AssetClass),
		Sector:             plan.Sector,
		PricePerUnitPaise:  plan.PricePerUnitPaise,
		CurrentPricePaise:  plan.CurrentPricePaise,
		MinInvestmentPaise: plan.MinInvestmentPaise,
		EligibilityConfig:  cfg,
		Status:             string(plan.Status),
		CreatedAt:          plan.CreatedAt,
		UpdatedAt:          plan.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	plan.ID = m.ID
	return nil
}

// GetByID gets a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	var m models.Plan
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// List lists plans, optionally only those open for investment
func (r *PlanRepository) List(ctx context.Context, onlyOpen bool) ([]*entities.Plan, error) {
	q := r.db.WithContext(ctx).Model(&models.Plan{}).Order("created_at DESC")
	if onlyOpen {
		q = q.Where("status = ?", string(entities.PlanStatusOpen))
	}

	var ms []models.Plan
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	var plans []*entities.Plan
	for _, m := range ms {
		model := m
		plan, err := r.toEntity(&model)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Update persists mutable plan fields
func (r *PlanRepository) Update(ctx context.Context, plan *entities.Plan) error {
	cfg, err := marshalConfig(plan.EligibilityConfig)
	if err != nil {
		return err
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Plan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]interface{}{
			"sector":              plan.Sector,
			"current_price_paise": plan.CurrentPricePaise,
			"eligibility_config":  cfg,
			"status":              string(plan.Status),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a plan
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Plan{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *PlanRepository) toEntity(m *models.Plan) (*entities.Plan, error) {
	var cfg map[string]bool
	if m.EligibilityConfig != "" {
		if err := json.Unmarshal([]byte(m.EligibilityConfig), &cfg); err != nil {
			return nil, err
		}
	}

	return &entities.Plan{
		ID:                 m.ID,
		Name:               m.Name,
		Company:            m.Company,
		AssetClass:         entities.AssetClass(m.AssetClass),
		Sector:             m.Sector,
		PricePerUnitPaise:  m.PricePerUnitPaise,
		CurrentPricePaise:  m.CurrentPricePaise,
		MinInvestmentPaise: m.MinInvestmentPaise,
		EligibilityConfig:  cfg,
		Status:             entities.PlanStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func marshalConfig(cfg map[string]bool) (string, error) {
	if cfg == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
