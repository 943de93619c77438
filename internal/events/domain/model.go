package domain

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrDuplicateSignup  = errors.New("already signed up for this event")
	ErrVolunteerUnknown = errors.New("volunteer not found")
	ErrValidation       = errors.New("validation failed")
)

// Event is a scheduled activity volunteers can sign up for.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Date             time.Time `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location,omitempty"`
	VolunteersNeeded int       `json:"volunteers_needed"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// EventSignup links one volunteer to one event; the pair is unique.
type EventSignup struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	VolunteerID string    `json:"volunteer_id"`
	Status      string    `json:"status"`
	SignedUpAt  time.Time `json:"signed_up_at"`
}
