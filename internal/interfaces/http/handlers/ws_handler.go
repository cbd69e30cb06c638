package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/infrastructure/ws"
	"preipo-sip.backend/internal/interfaces/http/middleware"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/internal/usecases"
	"preipo-sip.backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The bearer token in the auth middleware is the access control;
	// browsers connecting from other origins are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ticketAccessChecker interface {
	GetTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*entities.SupportTicket, error)
}

// WSHandler upgrades ticket chat subscriptions to WebSocket
type WSHandler struct {
	hub            *ws.Hub
	supportUsecase ticketAccessChecker
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *ws.Hub, supportUsecase *usecases.SupportUsecase) *WSHandler {
	return &WSHandler{hub: hub, supportUsecase: supportUsecase}
}

// Subscribe joins the caller to a ticket's live message stream. The
// connection is read-only; messages are posted over HTTP.
// GET /api/v1/support/tickets/:id/ws
func (h *WSHandler) Subscribe(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid ticket ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	// Same visibility rule as the REST surface: non-participants get 404.
	if _, err := h.supportUsecase.GetTicket(c.Request.Context(), userID, ticketID, middleware.IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Join(ticketID, conn)
}
