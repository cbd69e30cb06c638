package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

type adminServiceStub struct {
	statsFn     func(ctx context.Context) (*entities.PlatformStats, error)
	listUsersFn func(ctx context.Context, limit, offset int) ([]*entities.User, int, error)
}

func (s *adminServiceStub) PlatformStats(ctx context.Context) (*entities.PlatformStats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx)
	}
	return &entities.PlatformStats{}, nil
}

func (s *adminServiceStub) ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, int, error) {
	if s.listUsersFn != nil {
		return s.listUsersFn(ctx, limit, offset)
	}
	return []*entities.User{}, 0, nil
}

type kycServiceStub struct {
	setFn func(ctx context.Context, userID uuid.UUID, status entities.KYCStatus) (*entities.User, error)
}

func (s *kycServiceStub) SetKYCStatus(ctx context.Context, userID uuid.UUID, status entities.KYCStatus) (*entities.User, error) {
	if s.setFn != nil {
		return s.setFn(ctx, userID, status)
	}
	return nil, domainerrors.ErrNotFound
}

type planAdminServiceStub struct {
	createFn func(ctx context.Context, input *entities.CreatePlanInput) (*entities.Plan, error)
	updateFn func(ctx context.Context, id uuid.UUID, input *entities.UpdatePlanInput) (*entities.Plan, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s *planAdminServiceStub) Create(ctx context.Context, input *entities.CreatePlanInput) (*entities.Plan, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, domainerrors.ErrInvalidInput
}

func (s *planAdminServiceStub) Update(ctx context.Context, id uuid.UUID, input *entities.UpdatePlanInput) (*entities.Plan, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return nil, domainerrors.ErrNotFound
}

func (s *planAdminServiceStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return domainerrors.ErrNotFound
}

type ticketAdminServiceStub struct {
	updateStatusFn func(ctx context.Context, ticketID uuid.UUID, status entities.TicketStatus) error
}

func (s *ticketAdminServiceStub) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status entities.TicketStatus) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, ticketID, status)
	}
	return domainerrors.ErrNotFound
}

type legalAdminServiceStub struct {
	publishFn func(ctx context.Context, title, body string, version int) (*entities.LegalAgreement, error)
}

func (s *legalAdminServiceStub) Publish(ctx context.Context, title, body string, version int) (*entities.LegalAgreement, error) {
	if s.publishFn != nil {
		return s.publishFn(ctx, title, body, version)
	}
	return nil, domainerrors.ErrInvalidInput
}

type auditServiceStub struct {
	listFn func(ctx context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error)
}

func (s *auditServiceStub) List(ctx context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, limit, offset)
	}
	return []*entities.AuditLog{}, 0, nil
}

func newAdminHandlerForTest() (*AdminHandler, *adminServiceStub, *kycServiceStub, *planAdminServiceStub, *ticketAdminServiceStub, *legalAdminServiceStub, *auditServiceStub) {
	admin := &adminServiceStub{}
	kyc := &kycServiceStub{}
	plan := &planAdminServiceStub{}
	ticket := &ticketAdminServiceStub{}
	legal := &legalAdminServiceStub{}
	audit := &auditServiceStub{}
	h := &AdminHandler{
		adminUsecase:   admin,
		authUsecase:    kyc,
		planUsecase:    plan,
		supportUsecase: ticket,
		legalUsecase:   legal,
		auditUsecase:   audit,
	}
	return h, admin, kyc, plan, ticket, legal, audit
}

func TestAdminHandler_PlatformStats(t *testing.T) {
	h, admin, _, _, _, _, _ := newAdminHandlerForTest()
	admin.statsFn = func(context.Context) (*entities.PlatformStats, error) {
		return &entities.PlatformStats{
			TotalUsers:         42,
			ActiveInvestments:  7,
			TotalInvestedPaise: 3500000,
			OpenTickets:        3,
		}, nil
	}
	r := gin.New()
	r.GET("/admin/stats", asUser(uuid.New(), "ADMIN"), h.PlatformStats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"totalUsers":42`)
	require.Contains(t, w.Body.String(), `"totalInvestedPaise":3500000`)
}

func TestAdminHandler_UpdateKYC(t *testing.T) {
	h, _, kyc, _, _, _, _ := newAdminHandlerForTest()
	userID := uuid.New()
	kyc.setFn = func(_ context.Context, id uuid.UUID, status entities.KYCStatus) (*entities.User, error) {
		require.Equal(t, userID, id)
		require.Equal(t, entities.KYCVerified, status)
		return &entities.User{ID: id, KYCStatus: status}, nil
	}
	r := gin.New()
	r.PATCH("/admin/users/:id/kyc", asUser(uuid.New(), "ADMIN"), h.UpdateKYC)

	body := jsonBody(t, map[string]string{"status": "VERIFIED"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/users/"+userID.String()+"/kyc", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "VERIFIED")
}

func TestAdminHandler_UpdateKYC_RejectsUnknownStatus(t *testing.T) {
	h, _, _, _, _, _, _ := newAdminHandlerForTest()
	r := gin.New()
	r.PATCH("/admin/users/:id/kyc", asUser(uuid.New(), "ADMIN"), h.UpdateKYC)

	body := jsonBody(t, map[string]string{"status": "MAYBE"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/users/"+uuid.New().String()+"/kyc", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_CreatePlan(t *testing.T) {
	h, _, _, plan, _, _, _ := newAdminHandlerForTest()
	plan.createFn = func(_ context.Context, input *entities.CreatePlanInput) (*entities.Plan, error) {
		require.Equal(t, int64(100000), input.PricePerUnitPaise)
		return &entities.Plan{ID: uuid.New(), Name: input.Name, Status: entities.PlanStatusOpen}, nil
	}
	r := gin.New()
	r.POST("/admin/plans", asUser(uuid.New(), "ADMIN"), h.CreatePlan)

	body := jsonBody(t, map[string]interface{}{
		"name":               "Pre-IPO Alpha",
		"company":            "Alpha Ltd",
		"assetClass":         "EQUITY",
		"sector":             "Fintech",
		"pricePerUnitPaise":  100000,
		"minInvestmentPaise": 500000,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/plans", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "Pre-IPO Alpha")
}

func TestAdminHandler_UpdateTicketStatus(t *testing.T) {
	h, _, _, _, ticket, _, _ := newAdminHandlerForTest()
	ticketID := uuid.New()
	ticket.updateStatusFn = func(_ context.Context, id uuid.UUID, status entities.TicketStatus) error {
		require.Equal(t, ticketID, id)
		require.Equal(t, entities.TicketStatusResolved, status)
		return nil
	}
	r := gin.New()
	r.PATCH("/admin/tickets/:id/status", asUser(uuid.New(), "ADMIN"), h.UpdateTicketStatus)

	body := jsonBody(t, map[string]string{"status": "RESOLVED"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/tickets/"+ticketID.String()+"/status", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminHandler_PublishAgreement(t *testing.T) {
	h, _, _, _, _, legal, _ := newAdminHandlerForTest()
	legal.publishFn = func(_ context.Context, title, body string, version int) (*entities.LegalAgreement, error) {
		require.Equal(t, "Terms of Service", title)
		require.Equal(t, 3, version)
		return &entities.LegalAgreement{ID: uuid.New(), Title: title, Version: version}, nil
	}
	r := gin.New()
	r.POST("/admin/legal/agreements", asUser(uuid.New(), "ADMIN"), h.PublishAgreement)

	body := jsonBody(t, map[string]interface{}{"title": "Terms of Service", "body": "...terms...", "version": 3})
	req := httptest.NewRequest(http.MethodPost, "/admin/legal/agreements", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"version":3`)
}

func TestAdminHandler_ListAuditLogs_Filter(t *testing.T) {
	h, _, _, _, _, _, audit := newAdminHandlerForTest()
	audit.listFn = func(_ context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error) {
		require.Equal(t, "Investment", filter.ModelType)
		require.Equal(t, "investment.created", filter.Action)
		return []*entities.AuditLog{{ID: uuid.New(), Action: "investment.created"}}, 1, nil
	}
	r := gin.New()
	r.GET("/admin/audit-logs", asUser(uuid.New(), "ADMIN"), h.ListAuditLogs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/audit-logs?model_type=Investment&action=investment.created", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "investment.created")
}
