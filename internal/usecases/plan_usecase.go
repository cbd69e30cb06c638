package usecases

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/repositories"
)

// PlanUsecase handles plan catalogue business logic
type PlanUsecase struct {
	planRepo repositories.PlanRepository
	audit    *AuditUsecase
}

// NewPlanUsecase creates a new plan usecase
func NewPlanUsecase(planRepo repositories.PlanRepository, audit *AuditUsecase) *PlanUsecase {
	return &PlanUsecase{planRepo: planRepo, audit: audit}
}

// Create adds a plan to the catalogue. The current price starts at the
// issue price until an admin marks it to market.
func (u *PlanUsecase) Create(ctx context.Context, input *entities.CreatePlanInput) (*entities.Plan, error) {
	if input.MinInvestmentPaise < input.PricePerUnitPaise {
		return nil, domainerrors.BadRequest("minimum investment cannot be below the unit price")
	}

	plan := &entities.Plan{
		ID:                 uuid.New(),
		Name:               input.Name,
		Company:            input.Company,
		AssetClass:         entities.AssetClass(input.AssetClass),
		Sector:             input.Sector,
		PricePerUnitPaise:  input.PricePerUnitPaise,
		CurrentPricePaise:  input.PricePerUnitPaise,
		MinInvestmentPaise: input.MinInvestmentPaise,
		EligibilityConfig:  input.EligibilityConfig,
		Status:             entities.PlanStatusOpen,
	}
	if err := u.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "plan.created", "Plan", plan.ID.String(),
		nil,
		map[string]interface{}{"name": plan.Name, "company": plan.Company, "price_per_unit_paise": plan.PricePerUnitPaise},
		nil,
	)
	return plan, nil
}

// GetByID returns a single plan
func (u *PlanUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	return u.planRepo.GetByID(ctx, id)
}

// List returns plans. Non-admin callers only see OPEN plans.
func (u *PlanUsecase) List(ctx context.Context, includeClosed bool) ([]*entities.Plan, error) {
	return u.planRepo.List(ctx, !includeClosed)
}

// Update applies a partial update and writes an audit row with the old and
// new values of each changed field.
func (u *PlanUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UpdatePlanInput) (*entities.Plan, error) {
	plan, err := u.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := map[string]interface{}{}
	updated := map[string]interface{}{}

	if input.Sector != nil && *input.Sector != plan.Sector {
		old["sector"], updated["sector"] = plan.Sector, *input.Sector
		plan.Sector = *input.Sector
	}
	if input.CurrentPricePaise != nil && *input.CurrentPricePaise != plan.CurrentPricePaise {
		if *input.CurrentPricePaise <= 0 {
			return nil, domainerrors.BadRequest("current price must be positive")
		}
		old["current_price_paise"], updated["current_price_paise"] = plan.CurrentPricePaise, *input.CurrentPricePaise
		plan.CurrentPricePaise = *input.CurrentPricePaise
	}
	if input.Status != nil && entities.PlanStatus(*input.Status) != plan.Status {
		old["status"], updated["status"] = string(plan.Status), *input.Status
		plan.Status = entities.PlanStatus(*input.Status)
	}
	if input.EligibilityConfig != nil {
		old["eligibility_config"], updated["eligibility_config"] = plan.EligibilityConfig, input.EligibilityConfig
		plan.EligibilityConfig = input.EligibilityConfig
	}

	if len(updated) == 0 {
		return plan, nil
	}
	if err := u.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "plan.updated", "Plan", plan.ID.String(), old, updated, nil)
	return plan, nil
}

// Delete soft-deletes a plan from the catalogue
func (u *PlanUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	plan, err := u.planRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.planRepo.Delete(ctx, id); err != nil {
		return err
	}

	u.audit.Record(ctx, "plan.deleted", "Plan", id.String(),
		map[string]interface{}{"name": plan.Name, "status": string(plan.Status)},
		nil,
		nil,
	)
	return nil
}
