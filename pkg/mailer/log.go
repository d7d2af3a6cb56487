package mailer

import (
	"context"

	"github.com/fixitdz/contact-relay/pkg/logger"
	"go.uber.org/zap"
)

// LogMailer writes messages to the application log instead of sending them.
type LogMailer struct {
	sender Sender
}

func NewLogMailer(sender Sender) *LogMailer {
	return &LogMailer{sender: sender}
}

func (l *LogMailer) Driver() string {
	return "log"
}

func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	// Same checks as the SMTP path so development surfaces bad input early
	if _, err := buildMsg(l.sender, msg); err != nil {
		return err
	}

	logger.Info("Mail captured by log driver",
		zap.String("from", l.sender.Address),
		zap.Strings("to", msg.To),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}
