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

type portfolioService interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*entities.PortfolioSummary, error)
	GetValuation(ctx context.Context, userID uuid.UUID) (*entities.PortfolioValuation, error)
}

type projectionService interface {
	Simulate(input *entities.SimulationInput) (*entities.ProjectionResult, error)
}

// PortfolioHandler handles dashboard and simulation endpoints
type PortfolioHandler struct {
	portfolioUsecase  portfolioService
	projectionUsecase projectionService
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioUsecase *usecases.PortfolioUsecase, projectionUsecase *usecases.ProjectionUsecase) *PortfolioHandler {
	return &PortfolioHandler{portfolioUsecase: portfolioUsecase, projectionUsecase: projectionUsecase}
}

// Summary returns the cached dashboard aggregate
// GET /api/v1/portfolio/summary
func (h *PortfolioHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	summary, err := h.portfolioUsecase.GetSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// Valuation returns current value, gain and sector weights
// GET /api/v1/portfolio/valuation
func (h *PortfolioHandler) Valuation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	valuation, err := h.portfolioUsecase.GetValuation(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, valuation)
}

// Simulate projects maturity value for a hypothetical SIP
// POST /api/v1/simulations
func (h *PortfolioHandler) Simulate(c *gin.Context) {
	var input entities.SimulationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.projectionUsecase.Simulate(&input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
