package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/fixitdz/contact-relay/config"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSPolicy string // "mandatory", "opportunistic" or "none"
	SSL       bool   // implicit TLS, usually port 465
	Timeout   time.Duration
}

// SMTPConfigFrom maps application configuration onto SMTPConfig.
func SMTPConfigFrom(cfg config.SMTPConfig) SMTPConfig {
	return SMTPConfig{
		Host:      cfg.Host,
		Port:      cfg.Port,
		Username:  cfg.Username,
		Password:  cfg.Password,
		TLSPolicy: cfg.TLSPolicy,
		SSL:       cfg.SSL,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg    SMTPConfig
	sender Sender
}

// NewSMTPMailer creates an SMTP mailer with defaults for unset fields.
func NewSMTPMailer(cfg SMTPConfig, sender Sender) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
		if cfg.SSL {
			cfg.Port = 465
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.TLSPolicy == "" {
		cfg.TLSPolicy = "mandatory"
	}
	return &SMTPMailer{cfg: cfg, sender: sender}
}

func (s *SMTPMailer) Driver() string {
	return "smtp"
}

// Send dials the relay and delivers msg once.
func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(s.sender, msg)
	if err != nil {
		return err
	}

	client, err := s.newClient()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mailer: failed to send: %w", err)
	}
	return nil
}

// Check opens and closes a connection to the relay.
func (s *SMTPMailer) Check(ctx context.Context) error {
	client, err := s.newClient()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("mailer: failed to reach relay: %w", err)
	}
	return client.Close()
}

func (s *SMTPMailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithTimeout(s.cfg.Timeout),
	}

	if s.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(tlsPolicy(s.cfg.TLSPolicy)))
	}
	// The port goes last so TLS options cannot override it
	opts = append(opts, mail.WithPort(s.cfg.Port))

	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to create client: %w", err)
	}
	return client, nil
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch name {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}

// buildMsg turns msg into a go-mail message. From always comes from the
// configured sender; the submitter only ever appears as Reply-To.
func buildMsg(sender Sender, msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("mailer: no recipients specified")
	}
	if msg.TextBody == "" {
		return nil, fmt.Errorf("mailer: message body is empty")
	}

	m := mail.NewMsg()

	if sender.Name != "" {
		if err := m.FromFormat(sender.Name, sender.Address); err != nil {
			return nil, fmt.Errorf("mailer: invalid from address: %w", err)
		}
	} else if err := m.From(sender.Address); err != nil {
		return nil, fmt.Errorf("mailer: invalid from address: %w", err)
	}

	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mailer: invalid to address: %w", err)
	}

	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("mailer: invalid reply-to address: %w", err)
		}
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	if sender.XMailer != "" {
		m.SetGenHeader(mail.HeaderXMailer, sender.XMailer)
	}
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)

	return m, nil
}
