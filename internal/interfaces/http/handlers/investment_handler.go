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

type investmentService interface {
	Create(ctx context.Context, userID uuid.UUID, input *entities.CreateInvestmentInput) (*entities.Investment, error)
	GetByID(ctx context.Context, userID, investmentID uuid.UUID, isAdmin bool) (*entities.Investment, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Investment, int, error)
}

// InvestmentHandler handles SIP purchase endpoints
type InvestmentHandler struct {
	investmentUsecase investmentService
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(investmentUsecase *usecases.InvestmentUsecase) *InvestmentHandler {
	return &InvestmentHandler{investmentUsecase: investmentUsecase}
}

// Create records a SIP purchase
// POST /api/v1/investments
func (h *InvestmentHandler) Create(c *gin.Context) {
	var input entities.CreateInvestmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	investment, err := h.investmentUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, investment)
}

// List returns the caller's investments
// GET /api/v1/investments
func (h *InvestmentHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	limit, offset := pageParams(c)
	investments, total, err := h.investmentUsecase.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if investments == nil {
		investments = []*entities.Investment{}
	}
	response.SuccessWithMeta(c, http.StatusOK, investments, response.Meta{Total: total, Limit: limit, Offset: offset})
}

// Get returns one investment
// GET /api/v1/investments/:id
func (h *InvestmentHandler) Get(c *gin.Context) {
	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid investment ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	investment, err := h.investmentUsecase.GetByID(c.Request.Context(), userID, investmentID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, investment)
}
