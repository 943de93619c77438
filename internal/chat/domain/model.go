package domain

import (
	"errors"
	"time"
)

var ErrValidation = errors.New("validation failed")

// Message is one append-only group chat entry. Author name and role are
// denormalized on the row so history renders without a profile join.
type Message struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	UserID     string    `json:"user_id"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	CreatedAt  time.Time `json:"created_at"`
}
