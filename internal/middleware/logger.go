package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-terrace/conduit/internal/identity"
	"terminal-terrace/conduit/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger 为每个请求注入带 request_id 的日志实例，并在结束时记录访问日志
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		l := base.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), l))

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := identity.FromContext(c); id.IsResolved() {
			fields = append(fields, zap.Uint("user_id", id.UserID))
		}
		l.Info("request", fields...)
	}
}
