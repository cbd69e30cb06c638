package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

type webhookServiceStub struct {
	ingestFn func(ctx context.Context, body []byte, signature string) error
}

func (s *webhookServiceStub) Ingest(ctx context.Context, body []byte, signature string) error {
	if s.ingestFn != nil {
		return s.ingestFn(ctx, body, signature)
	}
	return nil
}

func TestWebhookHandler_Receive(t *testing.T) {
	var gotBody, gotSignature string
	stub := &webhookServiceStub{
		ingestFn: func(_ context.Context, body []byte, signature string) error {
			gotBody, gotSignature = string(body), signature
			return nil
		},
	}
	h := &WebhookHandler{webhookUsecase: stub}
	r := gin.New()
	r.POST("/webhooks/payments", h.Receive)

	payload := `{"id":"evt_1","event":"payment.captured"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(payload))
	req.Header.Set(SignatureHeader, "deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, payload, gotBody)
	require.Equal(t, "deadbeef", gotSignature)
}

func TestWebhookHandler_Receive_BadSignature(t *testing.T) {
	stub := &webhookServiceStub{
		ingestFn: func(context.Context, []byte, string) error {
			return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidSignature, "webhook signature mismatch", domainerrors.ErrInvalidSignature)
		},
	}
	h := &WebhookHandler{webhookUsecase: stub}
	r := gin.New()
	r.POST("/webhooks/payments", h.Receive)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(`{}`))
	req.Header.Set(SignatureHeader, "tampered")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// signature mismatch is a 400, never an auth challenge
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "ERR_INVALID_SIGNATURE")
}

func TestWebhookHandler_Receive_QueueFailureIs5xx(t *testing.T) {
	stub := &webhookServiceStub{
		ingestFn: func(context.Context, []byte, string) error {
			return domainerrors.InternalError(domainerrors.ErrBadRequest)
		},
	}
	h := &WebhookHandler{webhookUsecase: stub}
	r := gin.New()
	r.POST("/webhooks/payments", h.Receive)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set(SignatureHeader, "sig")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
