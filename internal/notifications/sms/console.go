package sms

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of dispatching them. Default in
// development so the broadcast path works without provider credentials.
type ConsoleSender struct {
	log *zap.Logger
}

func NewConsoleSender(log *zap.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) Send(_ context.Context, to, body string) (string, error) {
	id := uuid.New().String()
	s.log.Info("console SMS",
		zap.String("to", to),
		zap.String("body", body),
		zap.String("delivery_id", id))
	return id, nil
}
