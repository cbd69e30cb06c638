package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// lockDuration bounds how long an in-flight request holds the key
	lockDuration = 30 * time.Second
	// retentionDuration is how long a finished response can be replayed
	retentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes retried mutations safe: the first request with
// a given Idempotency-Key runs and its response is retained; retries replay
// the stored response; a concurrent duplicate gets 409.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s", userID, key)
		ctx := c.Request.Context()

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, lockDuration)
		if err != nil {
			// redis being down must not block payments
			c.Next()
			return
		}
		if !acquired {
			val, err := redisGet(ctx, storageKey)
			if err == nil && val == processingMarker {
				response.ErrorWithStatus(c, http.StatusConflict, domainerrors.CodeConflict, "Request already in progress")
				c.Abort()
				return
			}
			if err == nil {
				var stored storedResponse
				if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr == nil {
					c.Data(stored.Status, "application/json", []byte(stored.Body))
					c.Abort()
					return
				}
			}
			// lock expired or the stored value is unreadable; run it again
		}

		writer := captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			// do not pin a transient failure; let the client retry
			_ = redisDel(ctx, storageKey)
			return
		}

		stored, err := json.Marshal(storedResponse{Status: status, Body: writer.body.String()})
		if err != nil {
			_ = redisDel(ctx, storageKey)
			return
		}
		_ = redisSet(ctx, storageKey, string(stored), retentionDuration)
	}
}
