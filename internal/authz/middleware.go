package authz

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authmw "github.com/akshar-paaul/akshar-backend/internal/auth/middleware"
)

// Require aborts with 403 unless the resolved session may perform the
// action. It runs on every request, so a role change takes effect no later
// than the session's re-validation interval.
func Require(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := authmw.CurrentUser(c)
		if !CanPerform(user, action) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
			c.Abort()
			return
		}
		c.Next()
	}
}
