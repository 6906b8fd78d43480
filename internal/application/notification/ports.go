// Package notification arma y despacha los correos transaccionales del forwarder.
package notification

import "context"

// Attachment archivo adjunto a un correo.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message correo listo para enviar.
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer puerto de salida hacia el proveedor de correo (SMTP o log).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Recorder registra el resultado de cada envío (métricas).
type Recorder interface {
	EmailSent(template, result string)
}

type nopRecorder struct{}

func (nopRecorder) EmailSent(string, string) {}
