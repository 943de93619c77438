package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	authdomain "github.com/akshar-paaul/akshar-backend/internal/auth/domain"
	"github.com/akshar-paaul/akshar-backend/internal/chat/domain"
	"github.com/akshar-paaul/akshar-backend/internal/chat/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ChatService struct {
	repo *repository.MessageRepository
}

func NewChatService(repo *repository.MessageRepository) *ChatService {
	return &ChatService{repo: repo}
}

// Post appends a message. Clients showing an optimistic pending entry pass
// their generated id so a retry or the realtime echo reconciles against the
// same row.
func (s *ChatService) Post(ctx context.Context, author *authdomain.User, clientID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", domain.ErrValidation)
	}

	id := strings.TrimSpace(clientID)
	if id == "" {
		id = uuid.New().String()
	}

	msg := &domain.Message{
		ID:         id,
		Text:       text,
		UserID:     author.ID,
		SenderName: author.DisplayName(),
		SenderRole: string(author.Role),
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// PostSystem appends a message authored by the system on behalf of an admin,
// used by the broadcast fan-out.
func (s *ChatService) PostSystem(ctx context.Context, adminID, text string) (*domain.Message, error) {
	msg := &domain.Message{
		ID:         uuid.New().String(),
		Text:       text,
		UserID:     adminID,
		SenderName: "System",
		SenderRole: string(authdomain.RoleAdmin),
	}

	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns the newest messages first.
func (s *ChatService) List(ctx context.Context, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, limit)
}
