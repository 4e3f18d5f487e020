package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"MarketInsight/internal/common"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID tags every request with an id, reusing the caller's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs one line per request with the request id as correlation id.
func AccessLog(logger *common.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestLogger(c, logger).Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request")
	}
}

func requestLogger(c *gin.Context, logger *common.Logger) *common.Logger {
	if id := c.GetString(requestIDKey); id != "" {
		return logger.WithCorrelationId(id)
	}
	return logger
}
