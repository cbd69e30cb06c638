package usecases

import (
	"strings"
	"time"

	"preipo-sip.backend/internal/domain/entities"
)

// BonusStrategy computes a bonus amount for a user
type BonusStrategy interface {
	Calculate(user *entities.User, basePaise int64) int64
	Description() string
}

// AnniversaryBonus adds 10% on top of the base once the account is a year old
type AnniversaryBonus struct {
	now func() time.Time
}

// NewAnniversaryBonus creates the anniversary bonus strategy
func NewAnniversaryBonus() *AnniversaryBonus {
	return &AnniversaryBonus{now: time.Now}
}

func (b *AnniversaryBonus) Calculate(user *entities.User, basePaise int64) int64 {
	if user.AccountAge(b.now()) < 365*24*time.Hour {
		return 0
	}
	return PercentOf(basePaise, 10)
}

func (b *AnniversaryBonus) Description() string {
	return "10% anniversary bonus for accounts older than one year"
}

// ReferralBonus pays a flat amount on referral maturation, regardless of base
type ReferralBonus struct {
	amountPaise int64
}

// NewReferralBonus creates the referral bonus strategy
func NewReferralBonus(amountPaise int64) *ReferralBonus {
	return &ReferralBonus{amountPaise: amountPaise}
}

func (b *ReferralBonus) Calculate(_ *entities.User, _ int64) int64 {
	return b.amountPaise
}

func (b *ReferralBonus) Description() string {
	return "flat bonus credited when a referred account matures"
}

// BonusChain runs strategies in order, feeding each the running total so
// percentage strategies stack on top of flat ones.
type BonusChain struct {
	strategies []BonusStrategy
}

// NewBonusChain composes strategies; order matters.
func NewBonusChain(strategies ...BonusStrategy) *BonusChain {
	return &BonusChain{strategies: strategies}
}

func (c *BonusChain) Calculate(user *entities.User, basePaise int64) int64 {
	total := basePaise
	for _, s := range c.strategies {
		total += s.Calculate(user, total)
	}
	return total - basePaise
}

func (c *BonusChain) Description() string {
	parts := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		parts = append(parts, s.Description())
	}
	return strings.Join(parts, "; ")
}
