package http

import (
	"github.com/gin-gonic/gin"

	"github.com/akshar-paaul/akshar-backend/internal/authz"
)

// Register wires the public endpoints on public and the session-guarded
// endpoints on authed.
func (h *Handler) Register(public, authed *gin.RouterGroup) {
	public.POST("/auth/signup", h.Signup)
	public.POST("/auth/login", h.Login)
	public.POST("/auth/token-login", h.TokenLogin)

	authed.GET("/auth/session", h.Session)
	authed.GET("/auth/destinations", h.Destinations)
	authed.POST("/auth/logout", h.Logout)
	authed.PUT("/auth/users/:id/role", authz.Require(authz.ActionManageRoles), h.UpdateRole)
}
