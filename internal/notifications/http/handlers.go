package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authmw "github.com/akshar-paaul/akshar-backend/internal/auth/middleware"
	"github.com/akshar-paaul/akshar-backend/internal/authz"
	"github.com/akshar-paaul/akshar-backend/internal/notifications/domain"
	"github.com/akshar-paaul/akshar-backend/internal/notifications/service"
)

type Handler struct {
	broadcasts *service.BroadcastService
	log        *zap.Logger
}

func New(broadcasts *service.BroadcastService, log *zap.Logger) *Handler {
	return &Handler{broadcasts: broadcasts, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/notifications/broadcast", authz.Require(authz.ActionSendBroadcast), h.Broadcast)
	rg.GET("/notifications/parents", authz.Require(authz.ActionViewParentRoster), h.ListParents)
}

type broadcastRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func (h *Handler) Broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject and body are required"})
		return
	}

	admin := authmw.CurrentUser(c)
	report, err := h.broadcasts.Broadcast(c.Request.Context(), admin.ID, req.Subject, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecipients) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("broadcast", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *Handler) ListParents(c *gin.Context) {
	parents, err := h.broadcasts.ListRoster(c.Request.Context())
	if err != nil {
		h.log.Error("list parents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load parents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parents": parents})
}
