package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

var (
	company  = &entity.Company{ID: "co", Name: "Acme Logistics", TaxID: "900123456", Email: "ops@acme.example"}
	customer = &entity.Customer{ID: "cu", Name: "Importadora Andina", TaxID: "800111222"}
)

func invoiceFixture(status string) (*entity.Invoice, []*entity.InvoiceDetail) {
	inv := &entity.Invoice{
		ID: "inv", Prefix: "FAC", Number: "000042", Currency: "USD", Status: status,
		NetTotal: decimal.NewFromInt(3050), TaxTotal: decimal.RequireFromString("9.5"), GrandTotal: decimal.RequireFromString("3059.5"),
	}
	if status != entity.InvoiceStatusDraft {
		issue := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
		due := issue.AddDate(0, 0, 30)
		inv.IssueDate, inv.DueDate = &issue, &due
		inv.DocumentHash = "3f1c0c8e0a2b7d9f4e5a6b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f80912"
	}
	details := []*entity.InvoiceDetail{
		{Description: "Flete marítimo", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500), Subtotal: decimal.NewFromInt(3000)},
		{Description: "Emisión de BL", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), TaxRate: decimal.RequireFromString("0.19"), Subtotal: decimal.NewFromInt(50)},
	}
	return inv, details
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	for _, status := range []string{entity.InvoiceStatusDraft, entity.InvoiceStatusIssued} {
		inv, details := invoiceFixture(status)
		out, err := g.GenerateInvoicePDF(context.Background(), inv, company, customer, details)
		require.NoError(t, err, status)
		require.Greater(t, len(out), 4)
		assert.Equal(t, "%PDF", string(out[:4]), status)
	}
}

func TestRenderQuotation(t *testing.T) {
	rfq := &entity.RFQ{
		Number: "RFQ-2026-000001", Mode: entity.ModeSea, LoadType: entity.LoadFCL, OriginPort: "COCTG", DestinationPort: "USMIA",
		Commodity: "Café verde", Incoterm: "FOB", Containers: 2, WeightKg: decimal.NewFromInt(38000),
		ReadyDate: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	}
	bid := &entity.Bid{
		Number: "Q-2026-000001", Currency: "USD", Status: entity.BidStatusSent, TransitDays: 12,
		ValidUntil: time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		Items: []entity.BidItem{
			{Description: "Ocean freight", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500), Amount: decimal.NewFromInt(3000)},
		},
		Subtotal: decimal.NewFromInt(3000), Total: decimal.NewFromInt(3000),
	}

	out, err := NewMarotoPDFGenerator().RenderQuotation(company, customer, rfq, bid)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, splitEvery("abcdefg", 3))
	assert.Nil(t, splitEvery("", 3))
}
