package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// StructuredLogging provides structured logging middleware
func StructuredLogging(logger *slog.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		// Skip logging for probes
		if param.Path == "/health" || param.Path == "/metrics" {
			return ""
		}

		requestID, _ := param.Keys[RequestIDKey].(string)
		userID, _ := param.Keys[UserIDKey].(string)

		attrs := []any{
			"request_id", requestID,
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency_ms", param.Latency.Milliseconds(),
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
		}
		if userID != "" {
			attrs = append(attrs, "user_id", userID)
		}
		if param.ErrorMessage != "" {
			attrs = append(attrs, "error", param.ErrorMessage)
		}

		level := slog.LevelInfo
		if param.StatusCode >= 500 {
			level = slog.LevelError
		} else if param.StatusCode >= 400 {
			level = slog.LevelWarn
		}
		logger.Log(param.Request.Context(), level, "HTTP Request", attrs...)

		return ""
	})
}
