package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authmw "github.com/akshar-paaul/akshar-backend/internal/auth/middleware"
	"github.com/akshar-paaul/akshar-backend/internal/authz"
	"github.com/akshar-paaul/akshar-backend/internal/events/domain"
	"github.com/akshar-paaul/akshar-backend/internal/events/service"
)

type Handler struct {
	events *service.EventService
	log    *zap.Logger
}

func New(events *service.EventService, log *zap.Logger) *Handler {
	return &Handler{events: events, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/events", h.ListEvents)
	rg.POST("/events", authz.Require(authz.ActionCreateEvent), h.CreateEvent)
	rg.GET("/events/signups", h.ListSignups)
	rg.POST("/events/:id/signups", authz.Require(authz.ActionSignUpForEvent), h.SignUp)
}

type createEventRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	VolunteersNeeded int    `json:"volunteers_needed"`
}

type eventResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location,omitempty"`
	VolunteersNeeded int       `json:"volunteers_needed"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.Date.Format("2006-01-02"),
		Time:             e.Time,
		Location:         e.Location,
		VolunteersNeeded: e.VolunteersNeeded,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
	}
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	user := authmw.CurrentUser(c)
	event, err := h.events.CreateEvent(c.Request.Context(), service.CreateEventInput{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Time:             req.Time,
		Location:         req.Location,
		VolunteersNeeded: req.VolunteersNeeded,
		CreatedBy:        user.ID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": toEventResponse(event)})
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		h.log.Error("list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}

	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (h *Handler) SignUp(c *gin.Context) {
	user := authmw.CurrentUser(c)

	signup, err := h.events.SignUp(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateSignup):
			// Informational from the caller's point of view.
			c.JSON(http.StatusConflict, gin.H{"error": domain.ErrDuplicateSignup.Error()})
		case errors.Is(err, domain.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("event signup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign up"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"signup": signup})
}

func (h *Handler) ListSignups(c *gin.Context) {
	user := authmw.CurrentUser(c)

	signups, err := h.events.ListSignups(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("list signups", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load signups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signups": signups})
}
