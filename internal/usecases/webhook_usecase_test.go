package usecases

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

type stubPublisher struct {
	eventIDs []string
	payloads [][]byte
	err      error
}

func (s *stubPublisher) Publish(_ context.Context, eventID string, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.eventIDs = append(s.eventIDs, eventID)
	s.payloads = append(s.payloads, payload)
	return nil
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookUsecase_Ingest(t *testing.T) {
	pub := &stubPublisher{}
	u := NewWebhookUsecase("whsec_test", pub)

	body := []byte(`{"id":"evt_001","event":"payment.captured","created_at":1756700000,"payload":{"paymentId":"pay_123","investmentId":"b2a7b7e0-0000-0000-0000-000000000001","amountPaise":550000}}`)
	err := u.Ingest(context.Background(), body, signBody("whsec_test", body))
	require.NoError(t, err)

	// queued keyed by the gateway event id, raw body untouched
	require.Len(t, pub.eventIDs, 1)
	assert.Equal(t, "evt_001", pub.eventIDs[0])
	assert.Equal(t, body, pub.payloads[0])
}

func TestWebhookUsecase_Ingest_BadSignatureFailsClosed(t *testing.T) {
	pub := &stubPublisher{}
	u := NewWebhookUsecase("whsec_test", pub)
	body := []byte(`{"id":"evt_002","event":"payment.captured"}`)

	err := u.Ingest(context.Background(), body, signBody("wrong-secret", body))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	// nothing reaches the queue on a signature mismatch
	assert.Empty(t, pub.eventIDs)

	err = u.Ingest(context.Background(), body, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)
}

func TestWebhookUsecase_Ingest_TamperedBody(t *testing.T) {
	pub := &stubPublisher{}
	u := NewWebhookUsecase("whsec_test", pub)
	body := []byte(`{"id":"evt_003","event":"payment.captured"}`)
	sig := signBody("whsec_test", body)

	tampered := []byte(`{"id":"evt_003","event":"refund.processed"}`)
	err := u.Ingest(context.Background(), tampered, sig)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)
}

func TestWebhookUsecase_Ingest_MalformedPayload(t *testing.T) {
	pub := &stubPublisher{}
	u := NewWebhookUsecase("whsec_test", pub)

	body := []byte(`not-json`)
	err := u.Ingest(context.Background(), body, signBody("whsec_test", body))
	require.Error(t, err)

	// valid JSON but missing the envelope fields
	body = []byte(`{"foo":"bar"}`)
	err = u.Ingest(context.Background(), body, signBody("whsec_test", body))
	require.Error(t, err)
	assert.Empty(t, pub.eventIDs)
}

func TestWebhookUsecase_Ingest_PublishFailurePropagates(t *testing.T) {
	pub := &stubPublisher{err: errors.New("kafka unreachable")}
	u := NewWebhookUsecase("whsec_test", pub)

	body := []byte(`{"id":"evt_004","event":"payment.captured"}`)
	err := u.Ingest(context.Background(), body, signBody("whsec_test", body))
	require.Error(t, err)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Status)
}
