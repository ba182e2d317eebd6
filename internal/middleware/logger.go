package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/responsehub/backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request and tags it with a request id,
// reusing the caller's X-Request-ID when present.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		// Actor is only known after the auth middleware ran
		userID := uint(0)
		if actor, ok := CurrentActor(c); ok {
			userID = actor.UserID
		}

		fields := map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"user_id":    userID,
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("[API] request failed", fields)
		case c.Writer.Status() >= 400:
			logger.Warn("[API] request rejected", fields)
		default:
			logger.Info("[API] request", fields)
		}
	}
}
