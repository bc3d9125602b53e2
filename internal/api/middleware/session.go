package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/app/session"
)

// UserIDKey is the gin context key holding the caller's user id.
const UserIDKey = "user_id"

// PlanResolver returns the plan id of userID.
type PlanResolver func(ctx context.Context, userID string) string

// SessionConfig controls how callers are identified.
type SessionConfig struct {
	Signer *session.Signer
	// AllowHeaderUser trusts X-User-ID when no valid token is present.
	AllowHeaderUser bool
	PlanOf          PlanResolver
}

// Session resolves the caller from a bearer token or X-User-ID and stores a
// session.Session in the request context. Unknown or invalid credentials
// leave the request anonymous; clients of the proxy send an anonymous
// bearer key that is not a session token.
func Session(config SessionConfig, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s session.Session

		if token, ok := bearerToken(c.GetHeader("Authorization")); ok && config.Signer.Enabled() {
			if userID, err := config.Signer.Verify(token); err == nil {
				s.UserID = userID
			} else {
				logger.Debug("ignoring invalid session token", "request_id", GetRequestID(c))
			}
		}
		if s.UserID == "" && config.AllowHeaderUser {
			s.UserID = strings.TrimSpace(c.GetHeader("X-User-ID"))
		}

		if s.Authenticated() {
			if config.PlanOf != nil {
				s.Plan = config.PlanOf(c.Request.Context(), s.UserID)
			}
			c.Set(UserIDKey, s.UserID)
		}

		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

// RequireSession rejects anonymous callers.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c.Request.Context()).Authenticated() {
			HandleError(c, errors.NewUnauthorizedError("Usuário não autenticado"))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
