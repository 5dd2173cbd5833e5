package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs emails instead of sending them. Used with EMAIL_PROVIDER=log.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email (not sent)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// dialSender is the part of *gomail.Dialer SMTPSender uses.
type dialSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends emails through an SMTP relay.
type SMTPSender struct {
	dialer dialSender
	from   string
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

type Options struct {
	ResendAPIKey string
	ResendFrom   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// NewSender returns the Sender for provider ("log", "resend" or "smtp").
func NewSender(provider string, opts Options, logger *slog.Logger) (Sender, error) {
	switch provider {
	case "log":
		return &LogSender{logger: logger.With("component", "email")}, nil
	case "resend":
		return &ResendSender{
			client: resend.NewClient(opts.ResendAPIKey),
			from:   opts.ResendFrom,
		}, nil
	case "smtp":
		return &SMTPSender{
			dialer: gomail.NewDialer(opts.SMTPHost, opts.SMTPPort, opts.SMTPUsername, opts.SMTPPassword),
			from:   opts.SMTPFrom,
		}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}
