package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authmw "github.com/akshar-paaul/akshar-backend/internal/auth/middleware"
	"github.com/akshar-paaul/akshar-backend/internal/chat/domain"
	"github.com/akshar-paaul/akshar-backend/internal/chat/service"
)

type Handler struct {
	chat *service.ChatService
	log  *zap.Logger
}

func New(chat *service.ChatService, log *zap.Logger) *Handler {
	return &Handler{chat: chat, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/messages", h.ListMessages)
	rg.POST("/messages", h.PostMessage)
}

type postMessageRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	msg, err := h.chat.Post(c.Request.Context(), authmw.CurrentUser(c), req.ID, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("post message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.chat.List(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
