// Package mailer hands composed messages to a mail transport. The SMTP
// implementation wraps github.com/wneessen/go-mail; the log implementation
// writes messages to the application log for local development.
package mailer

import (
	"context"
)

// Message is a plain-text email from the configured sender.
type Message struct {
	To       []string // Recipient addresses
	Subject  string
	TextBody string
	ReplyTo  string // Optional
}

// Mailer sends a single message. Implementations must not retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Driver() string
}

// Checker is implemented by mailers that can probe their transport.
type Checker interface {
	Check(ctx context.Context) error
}

// Sender identifies who mail is sent from.
type Sender struct {
	Address string
	Name    string
	XMailer string
}
