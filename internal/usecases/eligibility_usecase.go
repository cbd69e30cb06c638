package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/pkg/redis"
)

// Rule is one plan eligibility check. Validate reports whether the user
// passes; Explain names the requirement for the rejection reasons list.
type Rule interface {
	Validate(user *entities.User, plan *entities.Plan) bool
	Explain() string
}

// KYCVerifiedRule requires a verified KYC status. Plans can switch it off
// through their eligibility config.
type KYCVerifiedRule struct{}

func (r KYCVerifiedRule) Validate(user *entities.User, plan *entities.Plan) bool {
	if !plan.RuleRequired(entities.EligibilityKYCRequired) {
		return true
	}
	return user.KYCStatus == entities.KYCVerified
}

func (r KYCVerifiedRule) Explain() string {
	return "KYC verification is required for this plan"
}

// MinimumAgeRule requires the investor to be an adult. Plans can switch it
// off through their eligibility config; an unknown date of birth fails.
type MinimumAgeRule struct {
	MinYears int
	now      func() time.Time
}

// NewMinimumAgeRule creates the age rule with the given threshold
func NewMinimumAgeRule(minYears int) *MinimumAgeRule {
	return &MinimumAgeRule{MinYears: minYears, now: time.Now}
}

func (r *MinimumAgeRule) Validate(user *entities.User, plan *entities.Plan) bool {
	if !plan.RuleRequired(entities.EligibilityMinAge) {
		return true
	}
	age := user.Age(r.now())
	return age >= r.MinYears
}

func (r *MinimumAgeRule) Explain() string {
	return fmt.Sprintf("investors must be at least %d years old", r.MinYears)
}

// EligibilityUsecase evaluates the rule chain for a (user, plan) pair. The
// rules are injected in order at wiring time; every rule runs and every
// failing reason is collected, not just the first.
type EligibilityUsecase struct {
	rules    []Rule
	cacheTTL time.Duration
}

// NewEligibilityUsecase creates the eligibility usecase with an ordered rule slice
func NewEligibilityUsecase(rules []Rule, cacheTTL time.Duration) *EligibilityUsecase {
	return &EligibilityUsecase{rules: rules, cacheTTL: cacheTTL}
}

// Check evaluates all rules. Results are cached per (user, plan) for the
// configured TTL so repeated checks within the window are byte-identical.
func (u *EligibilityUsecase) Check(ctx context.Context, user *entities.User, plan *entities.Plan) (*entities.EligibilityResult, error) {
	key := fmt.Sprintf("eligibility:%s:%s", user.ID, plan.ID)
	if cached, err := redis.Get(ctx, key); err == nil && cached != "" {
		var result entities.EligibilityResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	result := u.evaluate(user, plan)

	if raw, err := json.Marshal(result); err == nil {
		_ = redis.Set(ctx, key, string(raw), u.cacheTTL)
	}
	return result, nil
}

func (u *EligibilityUsecase) evaluate(user *entities.User, plan *entities.Plan) *entities.EligibilityResult {
	result := &entities.EligibilityResult{Eligible: true, Status: "eligible"}
	for _, rule := range u.rules {
		if !rule.Validate(user, plan) {
			result.Eligible = false
			result.Status = "ineligible"
			result.Reasons = append(result.Reasons, rule.Explain())
		}
	}
	return result
}
