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

type investmentServiceStub struct {
	createFn func(ctx context.Context, userID uuid.UUID, input *entities.CreateInvestmentInput) (*entities.Investment, error)
	getFn    func(ctx context.Context, userID, investmentID uuid.UUID, isAdmin bool) (*entities.Investment, error)
	listFn   func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Investment, int, error)
}

func (s *investmentServiceStub) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateInvestmentInput) (*entities.Investment, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, input)
	}
	return nil, domainerrors.ErrNotFound
}

func (s *investmentServiceStub) GetByID(ctx context.Context, userID, investmentID uuid.UUID, isAdmin bool) (*entities.Investment, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID, investmentID, isAdmin)
	}
	return nil, domainerrors.ErrNotFound
}

func (s *investmentServiceStub) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Investment, int, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, limit, offset)
	}
	return []*entities.Investment{}, 0, nil
}

func TestInvestmentHandler_Create(t *testing.T) {
	userID := uuid.New()
	planID := uuid.New()
	stub := &investmentServiceStub{
		createFn: func(_ context.Context, uid uuid.UUID, input *entities.CreateInvestmentInput) (*entities.Investment, error) {
			require.Equal(t, userID, uid)
			require.Equal(t, planID.String(), input.PlanID)
			return &entities.Investment{ID: uuid.New(), UserID: uid, AmountPaise: input.AmountPaise, Status: entities.InvestmentStatusPending}, nil
		},
	}
	h := &InvestmentHandler{investmentUsecase: stub}
	r := gin.New()
	r.POST("/investments", asUser(userID, "USER"), h.Create)

	body := jsonBody(t, map[string]interface{}{"planId": planID.String(), "amountPaise": 550000})
	req := httptest.NewRequest(http.MethodPost, "/investments", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "PENDING")
}

func TestInvestmentHandler_Create_IneligibleMapsTo403(t *testing.T) {
	stub := &investmentServiceStub{
		createFn: func(context.Context, uuid.UUID, *entities.CreateInvestmentInput) (*entities.Investment, error) {
			return nil, domainerrors.NewAppError(http.StatusForbidden, domainerrors.CodeNotEligible, "KYC verification required", domainerrors.ErrNotEligible)
		},
	}
	h := &InvestmentHandler{investmentUsecase: stub}
	r := gin.New()
	r.POST("/investments", asUser(uuid.New(), "USER"), h.Create)

	body := jsonBody(t, map[string]interface{}{"planId": uuid.New().String(), "amountPaise": 550000})
	req := httptest.NewRequest(http.MethodPost, "/investments", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "ERR_NOT_ELIGIBLE")
}

func TestInvestmentHandler_List_Meta(t *testing.T) {
	userID := uuid.New()
	stub := &investmentServiceStub{
		listFn: func(_ context.Context, uid uuid.UUID, limit, offset int) ([]*entities.Investment, int, error) {
			require.Equal(t, 5, limit)
			require.Equal(t, 10, offset)
			return []*entities.Investment{{ID: uuid.New(), UserID: uid}}, 23, nil
		},
	}
	h := &InvestmentHandler{investmentUsecase: stub}
	r := gin.New()
	r.GET("/investments", asUser(userID, "USER"), h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/investments?limit=5&offset=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":23`)
}

func TestInvestmentHandler_Get_OwnershipForwarded(t *testing.T) {
	userID := uuid.New()
	investmentID := uuid.New()
	stub := &investmentServiceStub{
		getFn: func(_ context.Context, uid, id uuid.UUID, isAdmin bool) (*entities.Investment, error) {
			require.Equal(t, userID, uid)
			require.Equal(t, investmentID, id)
			require.True(t, isAdmin)
			return &entities.Investment{ID: id, UserID: uuid.New()}, nil
		},
	}
	h := &InvestmentHandler{investmentUsecase: stub}
	r := gin.New()
	r.GET("/investments/:id", asUser(userID, "ADMIN"), h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/investments/"+investmentID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestInvestmentHandler_Get_BadID(t *testing.T) {
	h := &InvestmentHandler{investmentUsecase: &investmentServiceStub{}}
	r := gin.New()
	r.GET("/investments/:id", asUser(uuid.New(), "USER"), h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/investments/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}
