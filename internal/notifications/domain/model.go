package domain

import "errors"

var ErrNoRecipients = errors.New("no consented parents with a phone number")

// Parent is one potential broadcast recipient, projected from the profiles
// table.
type Parent struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	HasConsent bool     `json:"has_consent"`
	Children   []string `json:"children,omitempty"`
}

// Eligible reports whether the parent may receive an SMS broadcast.
func (p Parent) Eligible() bool {
	return p.HasConsent && p.Phone != ""
}

// DeliveryFailure records one failed SMS dispatch.
type DeliveryFailure struct {
	ParentID string `json:"parent_id"`
	Phone    string `json:"phone"`
	Reason   string `json:"reason"`
}

// DeliveryReport aggregates the outcome of one broadcast. The SMS channel and
// the in-app chat channel are independent; either may fail without rolling
// back the other.
type DeliveryReport struct {
	Recipients int               `json:"recipients"`
	SMSSuccess int               `json:"sms_success"`
	SMSFailed  int               `json:"sms_failed"`
	Failures   []DeliveryFailure `json:"failures,omitempty"`
	ChatPosted bool              `json:"chat_posted"`
	ChatError  string            `json:"chat_error,omitempty"`
}
