package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	chatservice "github.com/akshar-paaul/akshar-backend/internal/chat/service"
	"github.com/akshar-paaul/akshar-backend/internal/notifications/domain"
	"github.com/akshar-paaul/akshar-backend/internal/notifications/sms"
)

const (
	// smsBodyBudget bounds how much of the message body goes into the SMS;
	// the full text always reaches the in-app channel.
	smsBodyBudget = 100
	smsSignature  = " - Akshar Paaul"
)

// ParentLister yields the broadcast candidate set.
type ParentLister interface {
	ListParents(ctx context.Context) ([]domain.Parent, error)
}

type BroadcastService struct {
	parents ParentLister
	sender  sms.Sender
	chat    *chatservice.ChatService
	log     *zap.Logger
}

func NewBroadcastService(parents ParentLister, sender sms.Sender, chat *chatservice.ChatService, log *zap.Logger) *BroadcastService {
	return &BroadcastService{parents: parents, sender: sender, chat: chat, log: log}
}

// ListRoster returns every parent with their consent state, for the admin
// roster view.
func (s *BroadcastService) ListRoster(ctx context.Context) ([]domain.Parent, error) {
	return s.parents.ListParents(ctx)
}

// Broadcast sends the message over both channels: one SMS per consented
// parent with a phone number, and one in-app chat message carrying the full
// text. The channels are independent; a chat failure does not stop SMS
// delivery and per-recipient SMS failures are aggregated, never swallowed.
func (s *BroadcastService) Broadcast(ctx context.Context, adminID, subject, body string) (*domain.DeliveryReport, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("subject and body are required")
	}

	all, err := s.parents.ListParents(ctx)
	if err != nil {
		return nil, err
	}

	var recipients []domain.Parent
	for _, p := range all {
		if p.Eligible() {
			recipients = append(recipients, p)
		}
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	smsBody := buildSMSBody(subject, body)

	report := &domain.DeliveryReport{Recipients: len(recipients)}
	for _, p := range recipients {
		deliveryID, err := s.sender.Send(ctx, p.Phone, smsBody)
		if err != nil {
			report.SMSFailed++
			report.Failures = append(report.Failures, domain.DeliveryFailure{
				ParentID: p.ID,
				Phone:    p.Phone,
				Reason:   err.Error(),
			})
			s.log.Warn("broadcast SMS failed",
				zap.String("parent_id", p.ID), zap.Error(err))
			continue
		}
		report.SMSSuccess++
		s.log.Debug("broadcast SMS sent",
			zap.String("parent_id", p.ID), zap.String("delivery_id", deliveryID))
	}

	if _, err := s.chat.PostSystem(ctx, adminID, fmt.Sprintf("%s: %s", subject, body)); err != nil {
		report.ChatError = err.Error()
		s.log.Error("broadcast chat insert failed", zap.Error(err))
	} else {
		report.ChatPosted = true
	}

	return report, nil
}

// buildSMSBody assembles subject, a bounded body prefix and the fixed
// signature. The budget counts characters, not bytes, so multi-byte text is
// never cut mid-rune.
func buildSMSBody(subject, body string) string {
	if runes := []rune(body); len(runes) > smsBodyBudget {
		body = string(runes[:smsBodyBudget])
	}
	return subject + ": " + body + smsSignature
}
