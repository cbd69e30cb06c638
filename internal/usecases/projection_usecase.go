package usecases

import (
	"github.com/shopspring/decimal"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

// ProjectionUsecase handles return simulations
type ProjectionUsecase struct{}

// NewProjectionUsecase creates a new projection usecase
func NewProjectionUsecase() *ProjectionUsecase {
	return &ProjectionUsecase{}
}

// Simulate validates the request and projects maturity value. Rupees convert
// to paise exactly before any math happens.
func (u *ProjectionUsecase) Simulate(input *entities.SimulationInput) (*entities.ProjectionResult, error) {
	if input.PrincipalRupees <= 0 {
		return nil, domainerrors.BadRequest("principal must be positive")
	}
	if input.AnnualRate <= 0 || input.AnnualRate > 100 {
		return nil, domainerrors.BadRequest("annual rate must be between 0 and 100")
	}
	if input.TenureMonths < 1 || input.TenureMonths > 120 {
		return nil, domainerrors.BadRequest("tenure must be between 1 and 120 months")
	}

	principalPaise := RupeesToPaise(input.PrincipalRupees)
	maturityPaise := CalculateReturns(principalPaise, input.AnnualRate, input.TenureMonths)

	return &entities.ProjectionResult{
		PrincipalPaise:  principalPaise,
		MaturityPaise:   maturityPaise,
		GainPaise:       maturityPaise - principalPaise,
		PrincipalRupees: PaiseToRupees(principalPaise),
		MaturityRupees:  PaiseToRupees(maturityPaise),
		GainRupees:      PaiseToRupees(maturityPaise - principalPaise),
		AnnualRate:      input.AnnualRate,
		TenureMonths:    input.TenureMonths,
	}, nil
}

// CalculateReturns compounds the principal monthly at annualRate/12 for
// tenureMonths and returns the maturity amount in paise. Intermediate math
// stays in decimal; the result truncates to whole paise at the end.
func CalculateReturns(principalPaise int64, annualRate float64, tenureMonths int) int64 {
	monthlyRate := decimal.NewFromFloat(annualRate).
		Div(oneHundred).
		Div(decimal.NewFromInt(12)).
		Round(8)

	factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(int64(tenureMonths)))
	return decimal.NewFromInt(principalPaise).Mul(factor).Round(4).IntPart()
}
