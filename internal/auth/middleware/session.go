package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	"github.com/akshar-paaul/akshar-backend/internal/auth/service"
)

const (
	ctxUser  = "current_user"
	ctxToken = "session_token"
)

// RequireSession resolves the bearer token into the current user on every
// request. The role gate must never run against an unresolved session, so an
// unresolvable token aborts here.
func RequireSession(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		user, err := svc.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			c.Abort()
			return
		}

		c.Set(ctxUser, user)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// CurrentUser returns the resolved user, or nil outside RequireSession.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUser); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// SessionToken returns the bearer token the current user authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
