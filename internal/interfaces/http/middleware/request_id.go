package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestIDMiddleware assigns every request a unique id, honoring one the
// client already sent. The id is stamped on the Go context so the structured
// logger picks it up.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, id) //nolint:staticcheck // string key shared with pkg/logger
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
