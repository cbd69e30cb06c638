package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/repositories"
)

// InvestmentUsecase handles SIP purchase business logic
type InvestmentUsecase struct {
	investmentRepo repositories.InvestmentRepository
	planRepo       repositories.PlanRepository
	userRepo       repositories.UserRepository
	eligibility    *EligibilityUsecase
	portfolio      *PortfolioUsecase
	audit          *AuditUsecase
}

// NewInvestmentUsecase creates a new investment usecase
func NewInvestmentUsecase(
	investmentRepo repositories.InvestmentRepository,
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	eligibility *EligibilityUsecase,
	portfolio *PortfolioUsecase,
	audit *AuditUsecase,
) *InvestmentUsecase {
	return &InvestmentUsecase{
		investmentRepo: investmentRepo,
		planRepo:       planRepo,
		userRepo:       userRepo,
		eligibility:    eligibility,
		portfolio:      portfolio,
		audit:          audit,
	}
}

// Create records a SIP purchase. The investment starts PENDING and activates
// when the payment gateway confirms capture.
func (u *InvestmentUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateInvestmentInput) (*entities.Investment, error) {
	planID, err := uuid.Parse(input.PlanID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid plan id")
	}

	plan, err := u.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != entities.PlanStatusOpen {
		return nil, domainerrors.NewAppError(422, domainerrors.CodeNotEligible, "plan is not open for investment", domainerrors.ErrPlanInactive)
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := u.eligibility.Check(ctx, user, plan)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return nil, domainerrors.NewAppError(403, domainerrors.CodeNotEligible, strings.Join(result.Reasons, "; "), domainerrors.ErrNotEligible)
	}

	if input.AmountPaise < plan.MinInvestmentPaise {
		return nil, domainerrors.BadRequest("amount below plan minimum investment")
	}
	units := input.AmountPaise / plan.PricePerUnitPaise
	if units < 1 {
		return nil, domainerrors.BadRequest("amount buys less than one unit")
	}

	investment := &entities.Investment{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      plan.ID,
		AmountPaise: input.AmountPaise,
		Units:       units,
		Status:      entities.InvestmentStatusPending,
	}
	if err := u.investmentRepo.Create(ctx, investment); err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "investment.created", "Investment", investment.ID.String(),
		nil,
		map[string]interface{}{"plan_id": plan.ID.String(), "amount_paise": input.AmountPaise, "units": units},
		nil,
	)
	return investment, nil
}

// GetByID returns an investment, enforcing ownership for non-admin callers
func (u *InvestmentUsecase) GetByID(ctx context.Context, userID, investmentID uuid.UUID, isAdmin bool) (*entities.Investment, error) {
	investment, err := u.investmentRepo.GetByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && investment.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}
	return investment, nil
}

// List returns the user's investments with pagination
func (u *InvestmentUsecase) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Investment, int, error) {
	return u.investmentRepo.GetByUserID(ctx, userID, limit, offset)
}

// Activate moves a pending investment to ACTIVE after payment capture.
// Called by the payment-event consumer.
func (u *InvestmentUsecase) Activate(ctx context.Context, investmentID uuid.UUID, paymentRef string) error {
	investment, err := u.investmentRepo.GetByID(ctx, investmentID)
	if err != nil {
		return err
	}
	if investment.Status != entities.InvestmentStatusPending {
		return nil // already handled, at-least-once delivery
	}

	if paymentRef != "" {
		if err := u.investmentRepo.SetPaymentRef(ctx, investmentID, paymentRef); err != nil {
			return err
		}
	}
	if err := u.investmentRepo.UpdateStatus(ctx, investmentID, entities.InvestmentStatusActive); err != nil {
		return err
	}

	u.portfolio.InvalidateSummary(ctx, investment.UserID)
	u.audit.Record(ctx, "investment.activated", "Investment", investmentID.String(),
		map[string]interface{}{"status": string(entities.InvestmentStatusPending)},
		map[string]interface{}{"status": string(entities.InvestmentStatusActive)},
		map[string]interface{}{"payment_ref": paymentRef},
	)
	return nil
}

// Close marks a failed or refunded investment CLOSED
func (u *InvestmentUsecase) Close(ctx context.Context, investmentID uuid.UUID, reason string) error {
	investment, err := u.investmentRepo.GetByID(ctx, investmentID)
	if err != nil {
		return err
	}
	if investment.Status == entities.InvestmentStatusClosed {
		return nil
	}

	if err := u.investmentRepo.UpdateStatus(ctx, investmentID, entities.InvestmentStatusClosed); err != nil {
		return err
	}

	u.portfolio.InvalidateSummary(ctx, investment.UserID)
	u.audit.Record(ctx, "investment.closed", "Investment", investmentID.String(),
		map[string]interface{}{"status": string(investment.Status)},
		map[string]interface{}{"status": string(entities.InvestmentStatusClosed)},
		map[string]interface{}{"reason": reason},
	)
	return nil
}
