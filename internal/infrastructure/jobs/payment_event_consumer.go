package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/pkg/logger"
	"preipo-sip.backend/pkg/redis"
)

const eventDedupTTL = 24 * time.Hour

// EventFetcher pulls the next raw gateway event off the queue
type EventFetcher interface {
	Fetch(ctx context.Context) (string, []byte, error)
}

// InvestmentApplier is the slice of the investment usecase the consumer needs
type InvestmentApplier interface {
	Activate(ctx context.Context, investmentID uuid.UUID, paymentRef string) error
	Close(ctx context.Context, investmentID uuid.UUID, reason string) error
	GetByID(ctx context.Context, userID, investmentID uuid.UUID, isAdmin bool) (*entities.Investment, error)
}

// WalletCreditor credits refunds back to investor wallets
type WalletCreditor interface {
	Credit(ctx context.Context, userID uuid.UUID, amountPaise int64, description, referenceID string) error
}

// PaymentEventConsumer drains the payment-events topic and applies gateway
// events to investments and wallets. Delivery is at-least-once; a redis
// SetNX per event id keeps replays idempotent.
type PaymentEventConsumer struct {
	fetcher     EventFetcher
	investments InvestmentApplier
	wallet      WalletCreditor
	stop        chan struct{}
}

// NewPaymentEventConsumer creates the payment event consumer
func NewPaymentEventConsumer(fetcher EventFetcher, investments InvestmentApplier, wallet WalletCreditor) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		fetcher:     fetcher,
		investments: investments,
		wallet:      wallet,
		stop:        make(chan struct{}),
	}
}

// Start consumes events until the context is cancelled or Stop is called
func (c *PaymentEventConsumer) Start(ctx context.Context) {
	logger.Info(ctx, "starting payment event consumer")

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "payment event consumer stopped (context cancelled)")
			return
		case <-c.stop:
			logger.Info(ctx, "payment event consumer stopped")
			return
		default:
		}

		key, value, err := c.fetcher.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			logger.Error(ctx, "failed to fetch payment event", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		if err := c.Handle(ctx, value); err != nil {
			logger.Error(ctx, "failed to process payment event",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

// Stop signals the loop to exit
func (c *PaymentEventConsumer) Stop() {
	close(c.stop)
}

// Handle applies one raw gateway event. Replayed event ids are skipped.
func (c *PaymentEventConsumer) Handle(ctx context.Context, raw []byte) error {
	var event entities.GatewayEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		// a poison message will never parse; drop it rather than loop
		logger.Warn(ctx, "dropping undecodable payment event", zap.Error(err))
		return nil
	}

	fresh, err := redis.SetNX(ctx, "webhook:event:"+event.EventID, 1, eventDedupTTL)
	if err != nil {
		return fmt.Errorf("event dedup check: %w", err)
	}
	if !fresh {
		logger.Debug(ctx, "skipping replayed payment event", zap.String("event_id", event.EventID))
		return nil
	}

	if err := c.dispatch(ctx, &event); err != nil {
		// release the dedup claim so a later redelivery can retry
		_ = redis.Del(ctx, "webhook:event:"+event.EventID)
		return err
	}
	return nil
}

func (c *PaymentEventConsumer) dispatch(ctx context.Context, event *entities.GatewayEvent) error {
	switch event.Event {
	case entities.GatewayEventPaymentCaptured:
		return c.handleCaptured(ctx, event)
	case entities.GatewayEventPaymentFailed:
		return c.handleFailed(ctx, event)
	case entities.GatewayEventRefundProcessed:
		return c.handleRefund(ctx, event)
	default:
		logger.Debug(ctx, "ignoring unhandled gateway event",
			zap.String("event_id", event.EventID),
			zap.String("event", event.Event),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handleCaptured(ctx context.Context, event *entities.GatewayEvent) error {
	payment, investmentID, err := parsePayment(event)
	if err != nil {
		logger.Warn(ctx, "dropping malformed payment.captured event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return nil
	}

	if err := c.investments.Activate(ctx, investmentID, payment.PaymentID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "payment captured for unknown investment",
				zap.String("event_id", event.EventID),
				zap.String("investment_id", investmentID.String()),
			)
			return nil
		}
		return err
	}

	logger.Info(ctx, "investment activated",
		zap.String("investment_id", investmentID.String()),
		zap.String("payment_id", payment.PaymentID),
	)
	return nil
}

func (c *PaymentEventConsumer) handleFailed(ctx context.Context, event *entities.GatewayEvent) error {
	payment, investmentID, err := parsePayment(event)
	if err != nil {
		logger.Warn(ctx, "dropping malformed payment.failed event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return nil
	}

	reason := payment.Reason
	if reason == "" {
		reason = "payment failed"
	}
	if err := c.investments.Close(ctx, investmentID, reason); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	return nil
}

// handleRefund closes the investment and returns the captured amount to the
// investor's wallet. The credit reference carries the gateway payment id.
func (c *PaymentEventConsumer) handleRefund(ctx context.Context, event *entities.GatewayEvent) error {
	payment, investmentID, err := parsePayment(event)
	if err != nil {
		logger.Warn(ctx, "dropping malformed refund.processed event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return nil
	}

	investment, err := c.investments.GetByID(ctx, uuid.Nil, investmentID, true)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	amount := payment.AmountPaise
	if amount <= 0 {
		amount = investment.AmountPaise
	}
	description := fmt.Sprintf("Refund for investment %s", investmentID)
	if err := c.wallet.Credit(ctx, investment.UserID, amount, description, "refund:"+payment.PaymentID); err != nil {
		return err
	}
	return c.investments.Close(ctx, investmentID, "refund processed")
}

func parsePayment(event *entities.GatewayEvent) (*entities.CapturedPayment, uuid.UUID, error) {
	var payment entities.CapturedPayment
	if err := json.Unmarshal(event.Payload, &payment); err != nil {
		return nil, uuid.Nil, err
	}
	investmentID, err := uuid.Parse(payment.InvestmentID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("bad investment id %q: %w", payment.InvestmentID, err)
	}
	return &payment, investmentID, nil
}
