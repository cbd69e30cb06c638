package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/domain/repositories"
	"preipo-sip.backend/pkg/redis"
)

// PortfolioUsecase aggregates a user's active investments. All sums stay in
// integer paise; rupee strings are derived at the end.
type PortfolioUsecase struct {
	investmentRepo repositories.InvestmentRepository
	cacheTTL       time.Duration
}

// NewPortfolioUsecase creates a new portfolio usecase
func NewPortfolioUsecase(investmentRepo repositories.InvestmentRepository, cacheTTL time.Duration) *PortfolioUsecase {
	return &PortfolioUsecase{investmentRepo: investmentRepo, cacheTTL: cacheTTL}
}

// GetSummary returns the dashboard aggregate, read through the redis cache
func (u *PortfolioUsecase) GetSummary(ctx context.Context, userID uuid.UUID) (*entities.PortfolioSummary, error) {
	key := fmt.Sprintf("portfolio:summary:%s", userID)
	if cached, err := redis.Get(ctx, key); err == nil && cached != "" {
		var summary entities.PortfolioSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	}

	investments, err := u.investmentRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &entities.PortfolioSummary{}
	for _, inv := range investments {
		summary.TotalInvestedPaise += inv.AmountPaise
		summary.TotalUnits += inv.Units
		summary.ActiveDeals++
	}
	summary.TotalInvestedRupees = PaiseToRupees(summary.TotalInvestedPaise)

	if raw, err := json.Marshal(summary); err == nil {
		_ = redis.Set(ctx, key, string(raw), u.cacheTTL)
	}
	return summary, nil
}

// InvalidateSummary drops the cached summary after a write to the portfolio
func (u *PortfolioUsecase) InvalidateSummary(ctx context.Context, userID uuid.UUID) {
	_ = redis.Del(ctx, fmt.Sprintf("portfolio:summary:%s", userID))
}

// GetValuation returns the detailed valuation with gain figures and the
// per-sector weight breakdown. Zero invested short-circuits to zero percent.
func (u *PortfolioUsecase) GetValuation(ctx context.Context, userID uuid.UUID) (*entities.PortfolioValuation, error) {
	investments, err := u.investmentRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	valuation := &entities.PortfolioValuation{}
	sectorPaise := map[string]int64{}

	for _, inv := range investments {
		valuation.TotalInvestedPaise += inv.AmountPaise
		valuation.TotalUnits += inv.Units
		valuation.ActiveDeals++

		// no current price yet: fall back to cost basis, never zero
		current := inv.AmountPaise
		if inv.Plan != nil {
			sectorPaise[inv.Plan.Sector] += inv.AmountPaise
			if inv.Plan.CurrentPricePaise > 0 {
				current = inv.Units * inv.Plan.CurrentPricePaise
			}
		}
		valuation.CurrentValuePaise += current
	}

	valuation.GainPaise = valuation.CurrentValuePaise - valuation.TotalInvestedPaise
	valuation.TotalInvestedRupees = PaiseToRupees(valuation.TotalInvestedPaise)
	valuation.CurrentValueRupees = PaiseToRupees(valuation.CurrentValuePaise)
	valuation.GainPercent = RatioPercent(valuation.GainPaise, valuation.TotalInvestedPaise)

	sectors := make([]string, 0, len(sectorPaise))
	for sector := range sectorPaise {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	for _, sector := range sectors {
		valuation.Sectors = append(valuation.Sectors, entities.SectorWeight{
			Sector:        sector,
			InvestedPaise: sectorPaise[sector],
			WeightPercent: RatioPercent(sectorPaise[sector], valuation.TotalInvestedPaise),
		})
	}
	return valuation, nil
}
