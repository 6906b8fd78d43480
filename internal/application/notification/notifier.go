package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/pricing"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Nombres de plantilla (también se usan como etiqueta de métricas).
const (
	TplRFQSubmitted     = "rfq_submitted"
	TplQuotationSent    = "quotation_sent"
	TplShipmentStatus   = "shipment_status"
	TplShipmentReminder = "shipment_reminder"
	TplInvoiceIssued    = "invoice_issued"
	TplPortalInvitation = "portal_invitation"
)

// Resultados de envío.
const (
	ResultSent       = "sent"
	ResultSuppressed = "suppressed"
	ResultSkipped    = "skipped"
	ResultFailed     = "failed"
)

// Notifier renderiza las plantillas y envía por el Mailer.
// Nunca devuelve error: un correo fallido no debe tumbar la operación de negocio.
// Los correos hacia clientes de empresas DUMMY solo se registran en el log.
type Notifier struct {
	mailer   Mailer
	recorder Recorder
	log      zerolog.Logger
	tpl      *template.Template
	baseURL  string
}

// NewNotifier construye el notificador. recorder puede ser nil.
func NewNotifier(mailer Mailer, recorder Recorder, log zerolog.Logger, baseURL string) (*Notifier, error) {
	tpl, err := template.New("mail").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format("02/01/2006") },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("notification: parse templates: %w", err)
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Notifier{mailer: mailer, recorder: recorder, log: log, tpl: tpl, baseURL: baseURL}, nil
}

type envelope struct {
	company  *entity.Company
	to       string
	customer bool // destinatario externo (cliente); se suprime en DUMMY
	tpl      string
	subject  string
	data     map[string]any
	attach   []Attachment
}

func (n *Notifier) dispatch(ctx context.Context, e envelope) {
	lg := n.log.With().Str("template", e.tpl).Str("company_id", e.company.ID).Logger()
	if e.to == "" {
		n.recorder.EmailSent(e.tpl, ResultSkipped)
		lg.Debug().Msg("correo omitido: destinatario vacío")
		return
	}
	if e.customer && e.company.IsDummy() {
		n.recorder.EmailSent(e.tpl, ResultSuppressed)
		lg.Info().Str("to", e.to).Str("subject", e.subject).Msg("correo suprimido (cuenta de prueba)")
		return
	}
	e.data["Company"] = e.company
	e.data["BaseURL"] = n.baseURL

	var buf bytes.Buffer
	if err := n.tpl.ExecuteTemplate(&buf, e.tpl, e.data); err != nil {
		n.recorder.EmailSent(e.tpl, ResultFailed)
		lg.Error().Err(err).Msg("render de correo")
		return
	}
	msg := Message{To: []string{e.to}, Subject: e.subject, HTML: buf.String(), Attachments: e.attach}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.recorder.EmailSent(e.tpl, ResultFailed)
		lg.Error().Err(err).Str("to", e.to).Msg("envío de correo")
		return
	}
	n.recorder.EmailSent(e.tpl, ResultSent)
	lg.Info().Str("to", e.to).Msg("correo enviado")
}

// RFQSubmitted avisa al buzón de operaciones de la empresa que entró una solicitud.
func (n *Notifier) RFQSubmitted(ctx context.Context, company *entity.Company, rfq *entity.RFQ, customerName string) {
	to := company.NotificationEmail
	if to == "" {
		to = company.Email
	}
	n.dispatch(ctx, envelope{
		company: company, to: to, tpl: TplRFQSubmitted,
		subject: fmt.Sprintf("Nueva solicitud %s - %s", rfq.Number, customerName),
		data:    map[string]any{"RFQ": rfq, "CustomerName": customerName},
	})
}

// QuotationSent envía la cotización al cliente con el PDF adjunto.
func (n *Notifier) QuotationSent(ctx context.Context, company *entity.Company, customer *entity.Customer, rfq *entity.RFQ, bid *entity.Bid, pdf []byte) {
	var attach []Attachment
	if len(pdf) > 0 {
		attach = []Attachment{{Name: bid.Number + ".pdf", ContentType: "application/pdf", Data: pdf}}
	}
	n.dispatch(ctx, envelope{
		company: company, to: customer.Email, customer: true, tpl: TplQuotationSent,
		subject: fmt.Sprintf("Cotización %s (%s → %s)", bid.Number, rfq.OriginPort, rfq.DestinationPort),
		data: map[string]any{
			"RFQ": rfq, "Bid": bid, "CustomerName": customer.Name,
			"Total": pricing.FormatMoney(bid.Total, bid.Currency),
		},
		attach: attach,
	})
}

// ShipmentStatus informa al cliente el nuevo hito de su embarque.
func (n *Notifier) ShipmentStatus(ctx context.Context, company *entity.Company, customer *entity.Customer, s *entity.Shipment, m otif.Milestone) {
	n.dispatch(ctx, envelope{
		company: company, to: customer.Email, customer: true, tpl: TplShipmentStatus,
		subject: fmt.Sprintf("Embarque %s: %s", s.Reference, m.CustomerLabel),
		data:    map[string]any{"Shipment": s, "Milestone": m, "CustomerName": customer.Name},
	})
}

// ShipmentReminder recuerda a operaciones un zarpe o arribo próximo.
func (n *Notifier) ShipmentReminder(ctx context.Context, company *entity.Company, s *entity.Shipment, kind string, at time.Time) {
	to := company.NotificationEmail
	if to == "" {
		to = company.Email
	}
	n.dispatch(ctx, envelope{
		company: company, to: to, tpl: TplShipmentReminder,
		subject: fmt.Sprintf("Recordatorio %s: %s", kind, s.Reference),
		data:    map[string]any{"Shipment": s, "Kind": kind, "At": at},
	})
}

// InvoiceIssued envía la factura emitida al cliente.
func (n *Notifier) InvoiceIssued(ctx context.Context, company *entity.Company, customer *entity.Customer, inv *entity.Invoice, pdf []byte) {
	var attach []Attachment
	if len(pdf) > 0 {
		attach = []Attachment{{Name: fmt.Sprintf("%s-%s.pdf", inv.Prefix, inv.Number), ContentType: "application/pdf", Data: pdf}}
	}
	n.dispatch(ctx, envelope{
		company: company, to: customer.Email, customer: true, tpl: TplInvoiceIssued,
		subject: fmt.Sprintf("Factura %s-%s", inv.Prefix, inv.Number),
		data: map[string]any{
			"Invoice": inv, "CustomerName": customer.Name,
			"Total": pricing.FormatMoney(inv.GrandTotal, inv.Currency),
		},
		attach: attach,
	})
}

// PortalInvitation envía las credenciales del portal al usuario del cliente.
func (n *Notifier) PortalInvitation(ctx context.Context, company *entity.Company, customer *entity.Customer, user *entity.User, password string) {
	n.dispatch(ctx, envelope{
		company: company, to: user.Email, customer: true, tpl: TplPortalInvitation,
		subject: fmt.Sprintf("Acceso al portal de %s", company.Name),
		data: map[string]any{
			"Name": user.Name, "Email": user.Email, "Password": password, "CustomerName": customer.Name,
		},
	})
}
