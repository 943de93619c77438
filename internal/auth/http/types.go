package http

import (
	"time"

	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	"github.com/akshar-paaul/akshar-backend/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
	log         *zap.Logger
}

func New(authService *service.AuthService, log *zap.Logger) *Handler {
	return &Handler{
		authService: authService,
		log:         log,
	}
}

type signupRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	Role            string   `json:"role"`
	Phone           string   `json:"phone"`
	HasConsent      bool     `json:"has_consent"`
	Children        []string `json:"children"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Phone      string    `json:"phone,omitempty"`
	HasConsent bool      `json:"has_consent,omitempty"`
	Children   []string  `json:"children,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Phone:      u.Phone,
		HasConsent: u.HasConsent,
		Children:   u.Children,
		CreatedAt:  u.CreatedAt,
	}
}
