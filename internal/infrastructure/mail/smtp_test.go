package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Freight-api/internal/application/notification"
	"github.com/jhoicas/Freight-api/pkg/config"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestMailer(d *fakeDialer) *SMTPMailer {
	return &SMTPMailer{dialer: d, from: "ops@forwarder.example", fromName: "Forwarder"}
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &fakeDialer{}
	err := newTestMailer(d).Send(context.Background(), notification.Message{
		To:      []string{"cliente@example.com"},
		Subject: "Cotización COT-000001",
		HTML:    "<p>Hola</p>",
		Attachments: []notification.Attachment{
			{Name: "cotizacion.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "To: cliente@example.com")
	assert.Contains(t, raw, "<ops@forwarder.example>")
	assert.Contains(t, raw, "cotizacion.pdf")
	assert.Contains(t, raw, "application/pdf")
}

func TestSMTPMailer_Errores(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := newTestMailer(d)

	err := m.Send(context.Background(), notification.Message{To: []string{"a@b.co"}})
	assert.ErrorContains(t, err, "connection refused")

	assert.Error(t, m.Send(context.Background(), notification.Message{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, notification.Message{To: []string{"a@b.co"}}), context.Canceled)
}

func TestNew_SinSMTP(t *testing.T) {
	m := New(config.MailConfig{}, zerolog.Nop())
	_, ok := m.(*LogMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), notification.Message{To: []string{"x@y.co"}}))

	_, ok = New(config.MailConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop()).(*SMTPMailer)
	assert.True(t, ok)
}
