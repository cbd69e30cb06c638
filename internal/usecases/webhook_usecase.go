package usecases

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/pkg/logger"
)

// EventPublisher hands a verified gateway event to the queue
type EventPublisher interface {
	Publish(ctx context.Context, eventID string, payload []byte) error
}

// WebhookUsecase verifies and enqueues payment-gateway webhooks. Processing
// happens asynchronously in the consumer; the HTTP handler acknowledges as
// soon as the event is durably queued.
type WebhookUsecase struct {
	secret    []byte
	publisher EventPublisher
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(secret string, publisher EventPublisher) *WebhookUsecase {
	return &WebhookUsecase{secret: []byte(secret), publisher: publisher}
}

// Ingest verifies the gateway signature over the raw body, then publishes
// the event. Verification is fail-closed: nothing is queued, parsed or
// logged from a payload whose signature does not match.
func (u *WebhookUsecase) Ingest(ctx context.Context, body []byte, signature string) error {
	if !u.verify(body, signature) {
		return domainerrors.NewAppError(400, domainerrors.CodeInvalidSignature, "webhook signature mismatch", domainerrors.ErrInvalidSignature)
	}

	var event entities.GatewayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domainerrors.BadRequest("malformed webhook payload")
	}
	if event.EventID == "" || event.Event == "" {
		return domainerrors.BadRequest("webhook payload missing id or event")
	}

	if err := u.publisher.Publish(ctx, event.EventID, body); err != nil {
		// a 5xx here makes the gateway retry with the same event id
		return domainerrors.InternalError(err)
	}

	logger.Info(ctx, "gateway event queued",
		zap.String("event_id", event.EventID),
		zap.String("event", event.Event),
	)
	return nil
}

// verify checks the hex HMAC-SHA256 of the raw body
func (u *WebhookUsecase) verify(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, u.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
