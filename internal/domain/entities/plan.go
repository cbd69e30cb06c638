package entities

import (
	"time"

	"github.com/google/uuid"
)

// AssetClass represents the asset class of a plan
type AssetClass string

const (
	AssetClassEquity  AssetClass = "EQUITY"
	AssetClassDebt    AssetClass = "DEBT"
	AssetClassStartup AssetClass = "STARTUP"
)

// PlanStatus represents whether a plan accepts new investments
type PlanStatus string

const (
	PlanStatusOpen   PlanStatus = "OPEN"
	PlanStatusClosed PlanStatus = "CLOSED"
)

// Eligibility config keys
const (
	EligibilityKYCRequired = "kyc_required"
	EligibilityMinAge      = "min_age_required"
)

// Plan represents a pre-IPO investment product
type Plan struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Company            string          `json:"company"`
	AssetClass         AssetClass      `json:"assetClass"`
	Sector             string          `json:"sector"`
	PricePerUnitPaise  int64           `json:"pricePerUnitPaise"`
	CurrentPricePaise  int64           `json:"currentPricePaise"`
	MinInvestmentPaise int64           `json:"minInvestmentPaise"`
	EligibilityConfig  map[string]bool `json:"eligibilityConfig"`
	Status             PlanStatus      `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	DeletedAt          *time.Time      `json:"-"`
}

// RuleRequired reports whether an eligibility rule is enabled for the plan.
// Rules default to enabled unless the plan config disables them.
func (p *Plan) RuleRequired(key string) bool {
	if p.EligibilityConfig == nil {
		return true
	}
	required, ok := p.EligibilityConfig[key]
	if !ok {
		return true
	}
	return required
}

// CreatePlanInput represents input for creating a plan
type CreatePlanInput struct {
	Name               string          `json:"name" binding:"required,min=2,max=200"`
	Company            string          `json:"company" binding:"required,min=2,max=200"`
	AssetClass         string          `json:"assetClass" binding:"required,oneof=EQUITY DEBT STARTUP"`
	Sector             string          `json:"sector" binding:"required"`
	PricePerUnitPaise  int64           `json:"pricePerUnitPaise" binding:"required,gt=0"`
	MinInvestmentPaise int64           `json:"minInvestmentPaise" binding:"required,gt=0"`
	EligibilityConfig  map[string]bool `json:"eligibilityConfig"`
}

// UpdatePlanInput represents input for updating a plan
type UpdatePlanInput struct {
	Sector            *string         `json:"sector,omitempty"`
	CurrentPricePaise *int64          `json:"currentPricePaise,omitempty"`
	Status            *string         `json:"status,omitempty" binding:"omitempty,oneof=OPEN CLOSED"`
	EligibilityConfig map[string]bool `json:"eligibilityConfig,omitempty"`
}

// EligibilityResult is the outcome of evaluating every eligibility rule for a
// (user, plan) pair. Reasons lists every failing rule, not just the first.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
	Status   string   `json:"status"` // "eligible" | "ineligible"
}
