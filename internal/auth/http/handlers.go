package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	authmw "github.com/akshar-paaul/akshar-backend/internal/auth/middleware"
	"github.com/akshar-paaul/akshar-backend/internal/auth/service"
	"github.com/akshar-paaul/akshar-backend/internal/authz"
)

// Signup registers a new identity+profile and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	session, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		Phone:           req.Phone,
		HasConsent:      req.HasConsent,
		Children:        req.Children,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": domain.ErrEmailTaken.Error()})
		case errors.Is(err, domain.ErrProfileWrite):
			h.log.Error("signup profile write", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "profile could not be saved, please retry"})
		default:
			h.log.Error("signup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(&session.User),
	})
}

// Login authenticates by email and password. The failure message never
// reveals whether the email exists.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUnknownRole) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.log.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(&session.User),
	})
}

// TokenLogin exchanges a verified identity-provider token for a session.
func (h *Handler) TokenLogin(c *gin.Context) {
	idToken := extractBearer(c)
	if idToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity token"})
		return
	}

	session, err := h.authService.TokenLogin(c.Request.Context(), idToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity token"})
		case errors.Is(err, domain.ErrProfileNotFound):
			// Identity verified but no profile row: unauthenticated, not a
			// default role.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no profile for this account"})
		default:
			h.log.Error("token login", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(&session.User),
	})
}

// Session returns the resolved current user.
func (h *Handler) Session(c *gin.Context) {
	user := authmw.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// Destinations exposes the computed destination set for the current user.
func (h *Handler) Destinations(c *gin.Context) {
	user := authmw.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"destinations": authz.VisibleDestinations(user)})
}

// Logout destroys the current session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), authmw.SessionToken(c)); err != nil {
		h.log.Error("logout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateRole changes another user's role and revokes their sessions.
func (h *Handler) UpdateRole(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if err := h.authService.UpdateRole(c.Request.Context(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.log.Error("update role", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "role update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func extractBearer(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
