package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/interfaces/http/middleware"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/internal/usecases"
)

type legalService interface {
	List(ctx context.Context) ([]*entities.LegalAgreement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LegalAgreement, error)
	Accept(ctx context.Context, userID, agreementID uuid.UUID) (*entities.UserAgreementSignature, error)
	SignatureStatus(ctx context.Context, userID, agreementID uuid.UUID) (*entities.UserAgreementSignature, error)
}

// LegalHandler handles agreement listing and acceptance endpoints
type LegalHandler struct {
	legalUsecase legalService
}

// NewLegalHandler creates a new legal handler
func NewLegalHandler(legalUsecase *usecases.LegalUsecase) *LegalHandler {
	return &LegalHandler{legalUsecase: legalUsecase}
}

// List returns all published agreements
// GET /api/v1/legal/agreements
func (h *LegalHandler) List(c *gin.Context) {
	agreements, err := h.legalUsecase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if agreements == nil {
		agreements = []*entities.LegalAgreement{}
	}
	response.Success(c, http.StatusOK, agreements)
}

// Get returns one agreement with its full body
// GET /api/v1/legal/agreements/:id
func (h *LegalHandler) Get(c *gin.Context) {
	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid agreement ID"))
		return
	}

	agreement, err := h.legalUsecase.GetByID(c.Request.Context(), agreementID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, agreement)
}

// Accept records the caller's signature on an agreement
// POST /api/v1/legal/agreements/:id/accept
func (h *LegalHandler) Accept(c *gin.Context) {
	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid agreement ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	signature, err := h.legalUsecase.Accept(c.Request.Context(), userID, agreementID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, signature)
}

// SignatureStatus reports whether the caller has signed an agreement,
// and which version.
// GET /api/v1/legal/agreements/:id/signature
func (h *LegalHandler) SignatureStatus(c *gin.Context) {
	agreementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid agreement ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	signature, err := h.legalUsecase.SignatureStatus(c.Request.Context(), userID, agreementID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"signed":    signature != nil,
		"signature": signature,
	})
}
