package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

// Meta carries pagination info alongside list payloads
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success sends a success response wrapping the payload
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// SuccessWithMeta sends a list response with pagination metadata
func SuccessWithMeta(c *gin.Context, status int, data interface{}, meta Meta) {
	c.JSON(status, gin.H{"data": data, "meta": meta})
}

// Message sends a success response carrying only a message
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error maps an error to its HTTP shape. Bare sentinel errors get a status
// from the table below; anything unrecognized becomes a 500 without leaking
// the internal message.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromSentinel(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithStatus sends an error response with an explicit status and code
func ErrorWithStatus(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

func fromSentinel(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("resource already exists")
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrUnauthorized), errors.Is(err, domainerrors.ErrInvalidCredentials), errors.Is(err, domainerrors.ErrTokenExpired):
		return domainerrors.Unauthorized("unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("forbidden")
	case errors.Is(err, domainerrors.ErrInsufficientBalance):
		return domainerrors.NewAppError(422, domainerrors.CodeInvalidInput, "insufficient wallet balance", err)
	case errors.Is(err, domainerrors.ErrKYCRequired), errors.Is(err, domainerrors.ErrNotEligible):
		return domainerrors.NewAppError(403, domainerrors.CodeNotEligible, err.Error(), err)
	case errors.Is(err, domainerrors.ErrInvalidSignature):
		return domainerrors.NewAppError(400, domainerrors.CodeInvalidSignature, "invalid signature", err)
	default:
		return domainerrors.InternalError(err)
	}
}
