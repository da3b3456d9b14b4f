package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/utils"
)

const RequestIDKey = "request_id"

// RequestIDMiddleware assigns a unique ID to each request, honoring an
// incoming X-Request-ID header so IDs survive proxy hops.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = utils.GenerateUUIDv7().String()
		}

		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
