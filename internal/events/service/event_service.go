package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akshar-paaul/akshar-backend/internal/events/domain"
	"github.com/akshar-paaul/akshar-backend/internal/events/repository"
)

const dateLayout = "2006-01-02"

type EventService struct {
	repo *repository.EventRepository
}

func NewEventService(repo *repository.EventRepository) *EventService {
	return &EventService{repo: repo}
}

type CreateEventInput struct {
	Title            string
	Description      string
	Date             string
	Time             string
	Location         string
	VolunteersNeeded int
	CreatedBy        string
}

// CreateEvent validates and stores a new event. volunteers_needed is
// deliberately lenient: anything below 1 becomes 1 instead of failing the
// creation.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Time = strings.TrimSpace(in.Time)
	if in.Title == "" || in.Time == "" {
		return nil, fmt.Errorf("%w: title and time are required", domain.ErrValidation)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}

	needed := in.VolunteersNeeded
	if needed < 1 {
		needed = 1
	}

	event := &domain.Event{
		ID:               uuid.New().String(),
		Title:            in.Title,
		Description:      strings.TrimSpace(in.Description),
		Date:             date,
		Time:             in.Time,
		Location:         strings.TrimSpace(in.Location),
		VolunteersNeeded: needed,
		CreatedBy:        in.CreatedBy,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns every event, ascending by date.
func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.List(ctx)
}

// SignUp records one volunteer on one event. A second call with the same
// pair yields ErrDuplicateSignup and leaves exactly one record behind.
func (s *EventService) SignUp(ctx context.Context, eventID, volunteerID string) (*domain.EventSignup, error) {
	if strings.TrimSpace(eventID) == "" || strings.TrimSpace(volunteerID) == "" {
		return nil, fmt.Errorf("%w: event and volunteer are required", domain.ErrValidation)
	}

	signup := &domain.EventSignup{
		ID:          uuid.New().String(),
		EventID:     eventID,
		VolunteerID: volunteerID,
		Status:      "confirmed",
	}

	if err := s.repo.CreateSignup(ctx, signup); err != nil {
		return nil, err
	}
	return signup, nil
}

// ListSignups returns the volunteer's own signups.
func (s *EventService) ListSignups(ctx context.Context, volunteerID string) ([]domain.EventSignup, error) {
	return s.repo.ListSignupsByVolunteer(ctx, volunteerID)
}
