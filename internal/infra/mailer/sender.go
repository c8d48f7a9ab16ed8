package mailer

import (
	"context"
	"log/slog"

	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"

	"github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPSender struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errs.Wrap(err, "could not initialize smtp client")
	}
	return &SMTPSender{client: c, from: cfg.From, fromName: cfg.FromName}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return errs.Wrap(err, "failed to set From address")
	}
	if err := msg.To(m.To); err != nil {
		return errs.Wrap(err, "failed to set To address")
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errs.Wrap(err, "failed to send mail")
	}
	return nil
}

// LogSender stands in for SMTP when no host is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.logger.Info("mail delivery disabled, message logged", "to", m.To, "subject", m.Subject)
	return nil
}

func NewSender(cfg config.MailConfig, logger *slog.Logger) (Sender, error) {
	if !cfg.Enabled() {
		return NewLogSender(logger), nil
	}
	return NewSMTPSender(cfg)
}
