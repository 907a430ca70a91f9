package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"propapi/internal/config"
)

var ErrRecipientRequired = errors.New("recipient is required")

// Attachment is a file sent along with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a plain-text email.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender, or a logging sender when no SMTP host is configured.
func New(cfg config.SMTPConfig, logger zerolog.Logger) (Sender, error) {
	if cfg.Host == "" {
		return NewLogSender(logger), nil
	}
	return NewSMTPSender(cfg)
}

type smtpSender struct {
	from   string
	client *gomail.Client
}

// NewSMTPSender builds a go-mail client for cfg. Connections are opened per message.
func NewSMTPSender(cfg config.SMTPConfig) (Sender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("invalid smtp config: from address is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid smtp config: bad port %d", cfg.Port)
	}

	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &smtpSender{from: cfg.From, client: client}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrRecipientRequired
	}
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	for _, a := range msg.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		if err := m.AttachReader(a.Name, bytes.NewReader(a.Data), gomail.WithFileContentType(gomail.ContentType(ct))); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}
	return m, nil
}

type logSender struct {
	logger zerolog.Logger
}

// NewLogSender returns a Sender that only logs what it would have sent.
func NewLogSender(logger zerolog.Logger) Sender {
	return &logSender{logger: logger.With().Str("component", "mail").Logger()}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrRecipientRequired
	}
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Name)
	}
	s.logger.Info().Str("event", "mail_skipped").
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Strs("attachments", names).
		Msg("smtp not configured, message not delivered")
	return nil
}
