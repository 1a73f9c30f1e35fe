package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/userdesk/userdesk/logger"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
)

// RequestLogger tags every request with an id, echoed in the X-Request-Id
// header, and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		msg := "[%s] %s %s %d %s %s"
		args := []any{id, c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.ClientIP()}
		switch {
		case status >= 500:
			logger.Errorf(msg, args...)
		case status >= 400:
			logger.Warningf(msg, args...)
		default:
			logger.Debugf(msg, args...)
		}
	}
}
