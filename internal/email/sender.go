// Package email renders and delivers operations notification emails.
package email

import (
	"context"
	"errors"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Validate reports whether the message can be delivered.
func (m Message) Validate() error {
	if m.To == "" {
		return errors.New("email: missing recipient")
	}
	if m.Subject == "" {
		return errors.New("email: missing subject")
	}
	return nil
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender drops every message. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error {
	return nil
}
