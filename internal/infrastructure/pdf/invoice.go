package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// GenerateInvoicePDF genera el PDF de la factura. Los borradores llevan la marca "BORRADOR"
// y no tienen digest.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	customer *entity.Customer,
	details []*entity.InvoiceDetail,
) ([]byte, error) {
	number := invoice.Number
	if invoice.Prefix != "" {
		number = invoice.Prefix + "-" + invoice.Number
	}
	date := "Sin emitir"
	if invoice.IssueDate != nil {
		date = "Fecha: " + invoice.IssueDate.Format("02/01/2006")
		if invoice.DueDate != nil {
			date += "  Vence: " + invoice.DueDate.Format("02/01/2006")
		}
	}

	m := newDocument("Factura "+number, company)
	m.AddRows(headerRow(company, "FACTURA DE SERVICIOS DE FLETE", number, date))
	if invoice.Status == entity.InvoiceStatusDraft {
		m.AddRows(draftRow())
	}
	m.AddRows(separator(0.5))
	m.AddRows(emisorRow(company))
	m.AddRows(customerRow(customer))
	m.AddRows(separator(0.3))

	items := make([]lineItem, 0, len(details))
	for _, d := range details {
		items = append(items, lineItem{
			quantity: d.Quantity, description: d.Description, unitPrice: d.UnitPrice,
			taxRate: d.TaxRate, subtotal: d.Subtotal,
		})
	}
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(items, invoice.Currency)...)
	m.AddRows(separator(0.3))
	m.AddRows(totalsRow(invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal, invoice.Currency))

	if invoice.Notes != "" {
		m.AddRows(noteRow("OBSERVACIONES", invoice.Notes))
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(digestRows(invoice)...)

	return render(m)
}

// digestRows: huella SHA-256 del UBL partida + QR con número y digest.
func digestRows(invoice *entity.Invoice) []core.Row {
	if invoice.DocumentHash == "" {
		return []core.Row{noteRow("DOCUMENTO SIN EMITIR", "Esta representación no tiene validez como factura.")}
	}
	rows := []core.Row{
		row.New(5).Add(col.New(12).Add(
			text.New("Huella del documento (SHA-256 del XML UBL canonicalizado):", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)),
	}
	for _, chunk := range splitEvery(invoice.DocumentHash, 80) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(invoice.Prefix+"-"+invoice.Number+"|"+invoice.DocumentHash, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Escanea el código para verificar la huella del documento.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}
