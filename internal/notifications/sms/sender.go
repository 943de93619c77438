// Package sms provides the SMS gateway abstraction behind broadcast
// delivery and its Twilio, SNS and console implementations.
package sms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/config"
)

// Sender dispatches one SMS to one E.164 phone number and returns the
// provider's delivery id.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// NewSender builds the sender named by the configuration.
func NewSender(ctx context.Context, cfg config.SMSConfig, log *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case "twilio":
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom), nil
	case "sns":
		return NewSNSSender(ctx, cfg.SNSRegion)
	case "console":
		return NewConsoleSender(log), nil
	default:
		return nil, fmt.Errorf("unknown SMS provider %q", cfg.Provider)
	}
}
