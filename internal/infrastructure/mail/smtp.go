// Package mail implementa notification.Mailer: SMTP con gomail o, sin SMTP configurado,
// un mailer que solo registra el correo en el log.
package mail

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Freight-api/internal/application/notification"
	"github.com/jhoicas/Freight-api/pkg/config"
)

var (
	_ notification.Mailer = (*SMTPMailer)(nil)
	_ notification.Mailer = (*LogMailer)(nil)
)

// dialer subconjunto de gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía por SMTP.
type SMTPMailer struct {
	dialer   dialer
	from     string
	fromName string
}

// NewSMTPMailer crea el mailer con la configuración de correo.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// New elige el mailer según la configuración.
func New(cfg config.MailConfig, log zerolog.Logger) notification.Mailer {
	if !cfg.Enabled() {
		log.Warn().Msg("mail: SMTP sin configurar, los correos solo se registran en el log")
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}

// Send implementa notification.Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}
	if err := m.dialer.DialAndSend(m.build(msg)); err != nil {
		return fmt.Errorf("mail: smtp: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(msg notification.Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)
	for _, a := range msg.Attachments {
		data := a.Data
		gm.Attach(a.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return gm
}

// LogMailer registra el correo sin enviarlo (desarrollo o SMTP sin configurar).
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer crea el mailer de log.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send implementa notification.Mailer.
func (m *LogMailer) Send(_ context.Context, msg notification.Message) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Name)
	}
	m.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Strs("attachments", names).
		Int("html_bytes", len(msg.HTML)).
		Msg("mail: correo (solo log)")
	return nil
}
