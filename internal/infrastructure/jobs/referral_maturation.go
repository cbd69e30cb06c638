package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"preipo-sip.backend/pkg/logger"
)

// ReferralProcessor sweeps pending referrals and reports how many matured
type ReferralProcessor interface {
	ProcessPending(ctx context.Context, limit int) (int, error)
}

// ReferralMaturationJob periodically sweeps pending referrals and credits
// bonuses for the ones that have matured.
type ReferralMaturationJob struct {
	referrals ReferralProcessor
	interval  time.Duration
	batchSize int
	stop      chan struct{}
}

// NewReferralMaturationJob creates the maturation sweeper
func NewReferralMaturationJob(referrals ReferralProcessor, interval time.Duration) *ReferralMaturationJob {
	return &ReferralMaturationJob{
		referrals: referrals,
		interval:  interval,
		batchSize: 100,
		stop:      make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is called
func (j *ReferralMaturationJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting referral maturation job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "referral maturation job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "referral maturation job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop signals the loop to exit
func (j *ReferralMaturationJob) Stop() {
	close(j.stop)
}

func (j *ReferralMaturationJob) sweep(ctx context.Context) {
	processed, err := j.referrals.ProcessPending(ctx, j.batchSize)
	if err != nil {
		logger.Error(ctx, "referral maturation sweep failed", zap.Error(err))
		return
	}
	if processed > 0 {
		logger.Info(ctx, "referral bonuses credited", zap.Int("processed", processed))
	}
}
