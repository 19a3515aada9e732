package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend/internal/infrastructure/cache"
	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the header clients send to deduplicate retries
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects a mutating request whose Idempotency-Key was already
// seen within the TTL. The header is optional; requests without it pass
// through. Marking happens before the handler runs, so a request that fails
// mid-flight burns its key; clients retrying after an error should send a
// fresh key or rely on the operation's own idempotent semantics.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key to method and path so the same key can be reused
		// across different endpoints.
		scoped := c.Request.Method + ":" + c.FullPath() + ":" + key

		fresh, err := store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			// Store failure must not block traffic
			c.Next()
			return
		}
		if !fresh {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"Request with this idempotency key was already processed",
				requestID,
			))
			return
		}

		c.Next()
	}
}
