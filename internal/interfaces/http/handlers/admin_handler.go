package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/internal/usecases"
)

type adminService interface {
	PlatformStats(ctx context.Context) (*entities.PlatformStats, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, int, error)
}

type kycService interface {
	SetKYCStatus(ctx context.Context, userID uuid.UUID, status entities.KYCStatus) (*entities.User, error)
}

type planAdminService interface {
	Create(ctx context.Context, input *entities.CreatePlanInput) (*entities.Plan, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.UpdatePlanInput) (*entities.Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ticketAdminService interface {
	UpdateStatus(ctx context.Context, ticketID uuid.UUID, status entities.TicketStatus) error
}

type legalAdminService interface {
	Publish(ctx context.Context, title, body string, version int) (*entities.LegalAgreement, error)
}

type auditService interface {
	List(ctx context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error)
}

// AdminHandler handles the admin CRM surface
type AdminHandler struct {
	adminUsecase   adminService
	authUsecase    kycService
	planUsecase    planAdminService
	supportUsecase ticketAdminService
	legalUsecase   legalAdminService
	auditUsecase   auditService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	adminUsecase *usecases.AdminUsecase,
	authUsecase *usecases.AuthUsecase,
	planUsecase *usecases.PlanUsecase,
	supportUsecase *usecases.SupportUsecase,
	legalUsecase *usecases.LegalUsecase,
	auditUsecase *usecases.AuditUsecase,
) *AdminHandler {
	return &AdminHandler{
		adminUsecase:   adminUsecase,
		authUsecase:    authUsecase,
		planUsecase:    planUsecase,
		supportUsecase: supportUsecase,
		legalUsecase:   legalUsecase,
		auditUsecase:   auditUsecase,
	}
}

// PlatformStats returns the dashboard headline numbers
// GET /api/v1/admin/stats
func (h *AdminHandler) PlatformStats(c *gin.Context) {
	stats, err := h.adminUsecase.PlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// ListUsers returns a page of registered users
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pageParams(c)
	users, total, err := h.adminUsecase.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []*entities.User{}
	}
	response.SuccessWithMeta(c, http.StatusOK, users, response.Meta{Total: total, Limit: limit, Offset: offset})
}

type updateKYCInput struct {
	Status string `json:"status" binding:"required,oneof=UNVERIFIED PENDING VERIFIED"`
}

// UpdateKYC sets a user's KYC status
// PATCH /api/v1/admin/users/:id/kyc
func (h *AdminHandler) UpdateKYC(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input updateKYCInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.authUsecase.SetKYCStatus(c.Request.Context(), userID, entities.KYCStatus(input.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// CreatePlan creates an investment plan
// POST /api/v1/admin/plans
func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var input entities.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	plan, err := h.planUsecase.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, plan)
}

// UpdatePlan partially updates a plan
// PATCH /api/v1/admin/plans/:id
func (h *AdminHandler) UpdatePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid plan ID"))
		return
	}

	var input entities.UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	plan, err := h.planUsecase.Update(c.Request.Context(), planID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// DeletePlan removes a plan
// DELETE /api/v1/admin/plans/:id
func (h *AdminHandler) DeletePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid plan ID"))
		return
	}

	if err := h.planUsecase.Delete(c.Request.Context(), planID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Plan deleted")
}

type updateTicketStatusInput struct {
	Status string `json:"status" binding:"required,oneof=OPEN PENDING RESOLVED CLOSED"`
}

// UpdateTicketStatus moves a ticket through its lifecycle
// PATCH /api/v1/admin/tickets/:id/status
func (h *AdminHandler) UpdateTicketStatus(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid ticket ID"))
		return
	}

	var input updateTicketStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.supportUsecase.UpdateStatus(c.Request.Context(), ticketID, entities.TicketStatus(input.Status)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Ticket status updated")
}

type publishAgreementInput struct {
	Title   string `json:"title" binding:"required,min=2,max=200"`
	Body    string `json:"body" binding:"required,min=1"`
	Version int    `json:"version" binding:"required,gte=1"`
}

// PublishAgreement publishes a new legal agreement version
// POST /api/v1/admin/legal/agreements
func (h *AdminHandler) PublishAgreement(c *gin.Context) {
	var input publishAgreementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	agreement, err := h.legalUsecase.Publish(c.Request.Context(), input.Title, input.Body, input.Version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, agreement)
}

// ListAuditLogs returns a filtered page of the audit trail
// GET /api/v1/admin/audit-logs?model_type=&model_id=&action=
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	limit, offset := pageParams(c)
	filter := entities.AuditLogFilter{
		ModelType: c.Query("model_type"),
		ModelID:   c.Query("model_id"),
		Action:    c.Query("action"),
	}

	logs, total, err := h.auditUsecase.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []*entities.AuditLog{}
	}
	response.SuccessWithMeta(c, http.StatusOK, logs, response.Meta{Total: total, Limit: limit, Offset: offset})
}
