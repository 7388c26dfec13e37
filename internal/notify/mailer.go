// Package notify sends customer-facing email notifications.
package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/radstooling/backoffice-system/internal/model"
)

// Mailer sends notification mail over SMTP. A nil Mailer is a no-op, so the
// service runs without SMTP configured.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates a mailer. Returns nil when host is empty.
func NewMailer(host string, port int, user, pass, from string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// VerificationDecided mails the customer the outcome of a payment
// verification review.
func (m *Mailer) VerificationDecided(to, orderCode string, status model.VerificationStatus, amountCents int64, reason string) error {
	if m == nil || to == "" {
		return nil
	}

	amount := fmt.Sprintf("%.2f", float64(amountCents)/100)

	var subject, body string
	switch status {
	case model.VerificationApproved:
		subject = fmt.Sprintf("Payment received for order %s", orderCode)
		body = fmt.Sprintf("Your payment of PHP %s for order %s has been verified. Thank you!", amount, orderCode)
	case model.VerificationRejected:
		subject = fmt.Sprintf("Payment review for order %s", orderCode)
		body = fmt.Sprintf("Your submitted payment of PHP %s for order %s could not be verified.", amount, orderCode)
		if reason != "" {
			body += fmt.Sprintf(" Reason: %s.", reason)
		}
		body += " Please submit a new proof of payment."
	default:
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
