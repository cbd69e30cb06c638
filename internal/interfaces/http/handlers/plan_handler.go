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

type planService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
	List(ctx context.Context, includeClosed bool) ([]*entities.Plan, error)
}

type planUserLookup interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*entities.User, error)
}

type eligibilityService interface {
	Check(ctx context.Context, user *entities.User, plan *entities.Plan) (*entities.EligibilityResult, error)
}

// PlanHandler handles the public plan catalogue
type PlanHandler struct {
	planUsecase planService
	users       planUserLookup
	eligibility eligibilityService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planUsecase *usecases.PlanUsecase, auth *usecases.AuthUsecase, eligibility *usecases.EligibilityUsecase) *PlanHandler {
	return &PlanHandler{planUsecase: planUsecase, users: auth, eligibility: eligibility}
}

// List returns open plans; admins may include closed ones
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	includeClosed := middleware.IsAdmin(c) && c.Query("includeClosed") == "true"

	plans, err := h.planUsecase.List(c.Request.Context(), includeClosed)
	if err != nil {
		response.Error(c, err)
		return
	}
	if plans == nil {
		plans = []*entities.Plan{}
	}
	response.Success(c, http.StatusOK, plans)
}

// Get returns one plan
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid plan ID"))
		return
	}

	plan, err := h.planUsecase.GetByID(c.Request.Context(), planID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// Eligibility reports whether the caller can invest in the plan, with every
// failing requirement listed
// GET /api/v1/plans/:id/eligibility
func (h *PlanHandler) Eligibility(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid plan ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	ctx := c.Request.Context()
	plan, err := h.planUsecase.GetByID(ctx, planID)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.eligibility.Check(ctx, user, plan)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
