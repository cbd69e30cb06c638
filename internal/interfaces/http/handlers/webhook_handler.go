package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/internal/usecases"
)

// SignatureHeader is where the gateway puts the HMAC of the raw body
const SignatureHeader = "X-Razorpay-Signature"

type webhookService interface {
	Ingest(ctx context.Context, body []byte, signature string) error
}

// WebhookHandler receives payment-gateway callbacks
type WebhookHandler struct {
	webhookUsecase webhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase *usecases.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// Receive verifies and enqueues a gateway event. The 200 only promises the
// event is durably queued; processing happens asynchronously.
// POST /api/v1/webhooks/payments
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("could not read request body"))
		return
	}

	if err := h.webhookUsecase.Ingest(c.Request.Context(), body, c.GetHeader(SignatureHeader)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "accepted")
}
