package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
)

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRecorder struct{ results map[string]string }

func (f *fakeRecorder) EmailSent(tpl, result string) {
	if f.results == nil {
		f.results = map[string]string{}
	}
	f.results[tpl] = result
}

func newTestNotifier(t *testing.T, m Mailer, r Recorder) *Notifier {
	t.Helper()
	n, err := NewNotifier(m, r, zerolog.Nop(), "https://app.example.com")
	require.NoError(t, err)
	return n
}

var (
	regular  = &entity.Company{ID: "c-1", Name: "Andes Cargo", Affiliation: entity.AffiliationRegular, Email: "ops@andes.test"}
	customer = &entity.Customer{ID: "cu-1", Name: "Café Export", Email: "compras@cafe.test"}
)

func TestQuotationSent_AdjuntaPDF(t *testing.T) {
	m := &fakeMailer{}
	rec := &fakeRecorder{}
	n := newTestNotifier(t, m, rec)

	rfq := &entity.RFQ{ID: "r-1", Number: "RFQ-2026-000001", OriginPort: "COCTG", DestinationPort: "USMIA"}
	bid := &entity.Bid{Number: "BID-2026-000001", Currency: "USD", Total: decimal.RequireFromString("1250.50"), ValidUntil: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	n.QuotationSent(context.Background(), regular, customer, rfq, bid, []byte("%PDF-1.4"))

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, []string{"compras@cafe.test"}, msg.To)
	assert.Contains(t, msg.Subject, "BID-2026-000001")
	assert.Contains(t, msg.HTML, "Café Export")
	assert.Contains(t, msg.HTML, "01/03/2026")
	assert.Contains(t, msg.HTML, "https://app.example.com/portal/rfqs/r-1")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "BID-2026-000001.pdf", msg.Attachments[0].Name)
	assert.Equal(t, ResultSent, rec.results[TplQuotationSent])
}

func TestNotifier_SuprimeClientesDeCuentaDummy(t *testing.T) {
	m := &fakeMailer{}
	rec := &fakeRecorder{}
	n := newTestNotifier(t, m, rec)
	dummy := &entity.Company{ID: "c-2", Name: "Demo", Affiliation: entity.AffiliationDummy}

	m2, _ := otif.Describe(otif.StatusDeparted)
	n.ShipmentStatus(context.Background(), dummy, customer, &entity.Shipment{Reference: "SHP-1"}, m2)

	assert.Empty(t, m.sent)
	assert.Equal(t, ResultSuppressed, rec.results[TplShipmentStatus])
}

func TestNotifier_CorreosInternosDeDummySeEnvian(t *testing.T) {
	m := &fakeMailer{}
	n := newTestNotifier(t, m, nil)
	dummy := &entity.Company{ID: "c-2", Name: "Demo", Affiliation: entity.AffiliationDummy, NotificationEmail: "demo@x.test"}

	n.RFQSubmitted(context.Background(), dummy, &entity.RFQ{Number: "RFQ-1"}, "Cliente")
	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"demo@x.test"}, m.sent[0].To)
}

func TestNotifier_ErrorDelMailerNoSePropaga(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp caído")}
	rec := &fakeRecorder{}
	n := newTestNotifier(t, m, rec)

	assert.NotPanics(t, func() {
		n.PortalInvitation(context.Background(), regular, customer, &entity.User{Email: "a@b.test", Name: "Ana"}, "Tmp-123")
	})
	assert.Equal(t, ResultFailed, rec.results[TplPortalInvitation])
}

func TestNotifier_SinDestinatario(t *testing.T) {
	m := &fakeMailer{}
	rec := &fakeRecorder{}
	n := newTestNotifier(t, m, rec)

	n.InvoiceIssued(context.Background(), regular, &entity.Customer{Name: "Sin correo"}, &entity.Invoice{}, nil)
	assert.Empty(t, m.sent)
	assert.Equal(t, ResultSkipped, rec.results[TplInvoiceIssued])
}
