package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/domain/repositories"
	"preipo-sip.backend/pkg/logger"
)

const referralReferencePrefix = "referral:"

// ReferralUsecase handles referral stats and bonus maturation
type ReferralUsecase struct {
	referralRepo  repositories.ReferralRepository
	userRepo      repositories.UserRepository
	wallet        *WalletUsecase
	bonus         BonusStrategy
	minAccountAge time.Duration
	now           func() time.Time
}

// NewReferralUsecase creates a new referral usecase
func NewReferralUsecase(
	referralRepo repositories.ReferralRepository,
	userRepo repositories.UserRepository,
	wallet *WalletUsecase,
	bonus BonusStrategy,
	minAccountAge time.Duration,
) *ReferralUsecase {
	return &ReferralUsecase{
		referralRepo:  referralRepo,
		userRepo:      userRepo,
		wallet:        wallet,
		bonus:         bonus,
		minAccountAge: minAccountAge,
		now:           time.Now,
	}
}

// Stats returns the referrer-facing aggregate: invites, matured referrals and
// the total bonus credited so far.
func (u *ReferralUsecase) Stats(ctx context.Context, referrerID uuid.UUID) (*entities.ReferralStats, error) {
	referrals, err := u.referralRepo.GetByReferrerID(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	stats := &entities.ReferralStats{TotalInvited: len(referrals)}
	for _, r := range referrals {
		if r.Status == entities.ReferralStatusProcessed {
			stats.Processed++
		}
	}

	earned, err := u.wallet.SumCreditsByReference(ctx, referrerID, referralReferencePrefix)
	if err != nil {
		return nil, err
	}
	stats.TotalEarnedPaise = earned
	return stats, nil
}

// ProcessPending walks pending referrals and credits the bonus for every one
// that has matured. A referral matures when both parties are KYC verified and
// the referred account has existed for the minimum tenure. Failures on one
// referral do not stop the sweep.
func (u *ReferralUsecase) ProcessPending(ctx context.Context, limit int) (int, error) {
	pending, err := u.referralRepo.GetPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, referral := range pending {
		matured, err := u.hasMatured(ctx, referral)
		if err != nil {
			logger.Error(ctx, "referral maturity check failed",
				zap.String("referral_id", referral.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if !matured {
			continue
		}

		if err := u.payout(ctx, referral); err != nil {
			logger.Error(ctx, "referral payout failed",
				zap.String("referral_id", referral.ID.String()),
				zap.Error(err),
			)
			continue
		}
		processed++
	}
	return processed, nil
}

func (u *ReferralUsecase) hasMatured(ctx context.Context, referral *entities.Referral) (bool, error) {
	referrer, err := u.userRepo.GetByID(ctx, referral.ReferrerID)
	if err != nil {
		return false, err
	}
	referred, err := u.userRepo.GetByID(ctx, referral.ReferredID)
	if err != nil {
		return false, err
	}

	if referrer.KYCStatus != entities.KYCVerified || referred.KYCStatus != entities.KYCVerified {
		return false, nil
	}
	return referred.AccountAge(u.now()) >= u.minAccountAge, nil
}

// payout credits the bonus and marks the referral processed. The credit
// reference carries the referral id; an existing ledger row under that
// reference means a prior sweep already paid but crashed before marking,
// so the credit is skipped and only the mark is retried.
func (u *ReferralUsecase) payout(ctx context.Context, referral *entities.Referral) error {
	referrer, err := u.userRepo.GetByID(ctx, referral.ReferrerID)
	if err != nil {
		return err
	}
	amount := u.bonus.Calculate(referrer, 0)
	if amount > 0 {
		reference := referralReferencePrefix + referral.ID.String()
		paid, err := u.wallet.SumCreditsByReference(ctx, referral.ReferrerID, reference)
		if err != nil {
			return err
		}
		if paid == 0 {
			description := fmt.Sprintf("Referral bonus for invited account %s", referral.ReferredID)
			if err := u.wallet.Credit(ctx, referral.ReferrerID, amount, description, reference); err != nil {
				return err
			}
		}
	}
	return u.referralRepo.MarkProcessed(ctx, referral.ID)
}
