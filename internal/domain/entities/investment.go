package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// InvestmentStatus represents investment lifecycle status
type InvestmentStatus string

const (
	InvestmentStatusPending InvestmentStatus = "PENDING"
	InvestmentStatusActive  InvestmentStatus = "ACTIVE"
	InvestmentStatusClosed  InvestmentStatus = "CLOSED"
)

// Investment records a user's purchase into a plan. Amounts are integer paise;
// the row is read-only after creation except for status transitions.
type Investment struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	PlanID      uuid.UUID        `json:"planId"`
	AmountPaise int64            `json:"amountPaise"`
	Units       int64            `json:"units"`
	Status      InvestmentStatus `json:"status"`
	PaymentRef  null.String      `json:"paymentRef,omitempty"`
	ClosedAt    *time.Time       `json:"closedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   *time.Time       `json:"-"`

	// Joins
	Plan *Plan `json:"plan,omitempty"`
}

// CreateInvestmentInput represents input for a SIP purchase
type CreateInvestmentInput struct {
	PlanID      string `json:"planId" binding:"required,uuid"`
	AmountPaise int64  `json:"amountPaise" binding:"required,gt=0"`
}

// PortfolioSummary is the cached dashboard aggregate. Rupee figures are
// derived from the paise sums only at the response boundary.
type PortfolioSummary struct {
	TotalInvestedPaise  int64  `json:"totalInvestedPaise"`
	TotalInvestedRupees string `json:"totalInvestedRupees"`
	ActiveDeals         int    `json:"activeDeals"`
	TotalUnits          int64  `json:"totalUnits"`
}

// SectorWeight is one slice of the valuation sector breakdown
type SectorWeight struct {
	Sector        string `json:"sector"`
	InvestedPaise int64  `json:"investedPaise"`
	WeightPercent string `json:"weightPercent"`
}

// PortfolioValuation is the detailed valuation with gain/loss figures
type PortfolioValuation struct {
	TotalInvestedPaise  int64          `json:"totalInvestedPaise"`
	TotalInvestedRupees string         `json:"totalInvestedRupees"`
	CurrentValuePaise   int64          `json:"currentValuePaise"`
	CurrentValueRupees  string         `json:"currentValueRupees"`
	GainPaise           int64          `json:"gainPaise"`
	GainPercent         string         `json:"gainPercent"`
	ActiveDeals         int            `json:"activeDeals"`
	TotalUnits          int64          `json:"totalUnits"`
	Sectors             []SectorWeight `json:"sectors"`
}
