package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todoapi/internal/pkg/jwtutil"
	"todoapi/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "email"
)

// Auth verifies the bearer token and binds the authenticated identity to the
// request context. Every failure mode collapses to a single 401.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.AbortError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		c.Set(ContextUserIDKey, claims.Subject)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// RequireUserMatch rejects requests whose :user_id path segment differs from
// the authenticated subject. The path value is only ever compared, never used
// to select rows; handlers read the identity from the context.
func RequireUserMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		authUserID := AuthenticatedUserID(c)
		if authUserID == "" {
			response.AbortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if c.Param("user_id") != authUserID {
			response.AbortError(c, http.StatusForbidden, "access denied")
			return
		}
		c.Next()
	}
}

// AuthenticatedUserID returns the token subject bound by Auth, or "".
func AuthenticatedUserID(c *gin.Context) string {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return ""
	}
	userID, ok := value.(string)
	if !ok {
		return ""
	}
	return userID
}
