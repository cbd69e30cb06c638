package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/interfaces/http/middleware"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/internal/usecases"
)

// maxAttachmentBytes bounds uploaded attachment size
const maxAttachmentBytes = 10 << 20

type supportService interface {
	CreateTicket(ctx context.Context, userID uuid.UUID, input *entities.CreateTicketInput) (*entities.SupportTicket, error)
	GetTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*entities.SupportTicket, error)
	ListTickets(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.SupportTicket, int, error)
	PostMessage(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool, body, attachmentName string, attachment io.Reader) (*entities.SupportMessage, error)
	ListMessages(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool, cursor string, limit int) (*entities.MessagePage, error)
	AttachmentURL(ctx context.Context, userID, ticketID, messageID uuid.UUID, isAdmin bool) (string, error)
	OpenAttachment(ctx context.Context, ticketID, messageID uuid.UUID, path string, expires int64, signature string) (io.ReadCloser, error)
}

// SupportHandler handles ticket and chat endpoints
type SupportHandler struct {
	supportUsecase supportService
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(supportUsecase *usecases.SupportUsecase) *SupportHandler {
	return &SupportHandler{supportUsecase: supportUsecase}
}

// CreateTicket opens a ticket with its first message
// POST /api/v1/support/tickets
func (h *SupportHandler) CreateTicket(c *gin.Context) {
	var input entities.CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	ticket, err := h.supportUsecase.CreateTicket(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ticket)
}

// ListTickets returns the caller's tickets
// GET /api/v1/support/tickets
func (h *SupportHandler) ListTickets(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	limit, offset := pageParams(c)
	tickets, total, err := h.supportUsecase.ListTickets(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if tickets == nil {
		tickets = []*entities.SupportTicket{}
	}
	response.SuccessWithMeta(c, http.StatusOK, tickets, response.Meta{Total: total, Limit: limit, Offset: offset})
}

// GetTicket returns one ticket
// GET /api/v1/support/tickets/:id
func (h *SupportHandler) GetTicket(c *gin.Context) {
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

	ticket, err := h.supportUsecase.GetTicket(c.Request.Context(), userID, ticketID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ticket)
}

// PostMessage appends a chat message, optionally with a multipart attachment
// POST /api/v1/support/tickets/:id/messages
func (h *SupportHandler) PostMessage(c *gin.Context) {
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

	body, attachmentName, attachment, err := h.parseMessage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if attachment != nil {
		defer attachment.Close()
	}

	var reader io.Reader
	if attachment != nil {
		reader = io.LimitReader(attachment, maxAttachmentBytes)
	}
	message, err := h.supportUsecase.PostMessage(c.Request.Context(), userID, ticketID, middleware.IsAdmin(c), body, attachmentName, reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, message)
}

// parseMessage accepts either a JSON body or a multipart form with an
// optional file part.
func (h *SupportHandler) parseMessage(c *gin.Context) (body, attachmentName string, attachment multipart.File, err error) {
	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		body = c.PostForm("body")
		if body == "" {
			return "", "", nil, domainerrors.BadRequest("body is required")
		}

		header, formErr := c.FormFile("attachment")
		if formErr != nil {
			return body, "", nil, nil // no file part
		}
		if header.Size > maxAttachmentBytes {
			return "", "", nil, domainerrors.BadRequest("attachment exceeds the 10MB limit")
		}
		file, openErr := header.Open()
		if openErr != nil {
			return "", "", nil, domainerrors.InternalError(openErr)
		}
		return body, header.Filename, file, nil
	}

	var input entities.CreateMessageInput
	if bindErr := c.ShouldBindJSON(&input); bindErr != nil {
		return "", "", nil, domainerrors.BadRequest(bindErr.Error())
	}
	return input.Body, "", nil, nil
}

// ListMessages returns one keyset page of ticket chat, newest first
// GET /api/v1/support/tickets/:id/messages?cursor=...&limit=20
func (h *SupportHandler) ListMessages(c *gin.Context) {
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

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, err := h.supportUsecase.ListMessages(c.Request.Context(), userID, ticketID, middleware.IsAdmin(c), c.Query("cursor"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// MintAttachmentURL returns a short-lived signed URL for a private attachment
// POST /api/v1/support/tickets/:id/messages/:messageId/attachment-url
func (h *SupportHandler) MintAttachmentURL(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid ticket ID"))
		return
	}
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid message ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	url, err := h.supportUsecase.AttachmentURL(c.Request.Context(), userID, ticketID, messageID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// DownloadAttachment streams an attachment after signature verification.
// The route is unauthenticated; possession of a valid signed URL is the
// authorization.
// GET /api/v1/support/tickets/:id/messages/:messageId/attachment
func (h *SupportHandler) DownloadAttachment(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid ticket ID"))
		return
	}
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid message ID"))
		return
	}
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("expires must be a unix timestamp"))
		return
	}

	rc, err := h.supportUsecase.OpenAttachment(
		c.Request.Context(),
		ticketID,
		messageID,
		c.Request.URL.Path,
		expires,
		c.Query("signature"),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
