package pdf

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// RenderQuotation genera el PDF de la oferta que se adjunta al cliente.
func (g *MarotoPDFGenerator) RenderQuotation(company *entity.Company, customer *entity.Customer, rfq *entity.RFQ, bid *entity.Bid) ([]byte, error) {
	m := newDocument("Cotización "+bid.Number, company)
	m.AddRows(headerRow(company, "COTIZACIÓN DE FLETE", bid.Number, "Válida hasta: "+bid.ValidUntil.Format("02/01/2006")))
	if bid.Status == entity.BidStatusDraft {
		m.AddRows(draftRow())
	}
	m.AddRows(separator(0.5))
	m.AddRows(emisorRow(company))
	m.AddRows(customerRow(customer))
	m.AddRows(separator(0.3))
	m.AddRows(noteRow("SOLICITUD "+rfq.Number, routeSummary(rfq, bid)))
	m.AddRows(noteRow("CARGA", cargoSummary(rfq)))
	m.AddRows(separator(0.3))

	items := make([]lineItem, 0, len(bid.Items))
	for _, it := range bid.Items {
		items = append(items, lineItem{
			quantity: it.Quantity, description: it.Description, unitPrice: it.UnitPrice,
			taxRate: it.TaxRate, subtotal: it.Amount,
		})
	}
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(items, bid.Currency)...)
	m.AddRows(separator(0.3))
	m.AddRows(totalsRow(bid.Subtotal, bid.TaxTotal, bid.Total, bid.Currency))

	if bid.Remarks != "" {
		m.AddRows(noteRow("OBSERVACIONES", bid.Remarks))
	}
	m.AddRows(noteRow("CONDICIONES",
		"Tarifas sujetas a disponibilidad de espacio y equipo. No incluye seguro, impuestos de importación ni almacenajes no indicados."))

	return render(m)
}

func routeSummary(rfq *entity.RFQ, bid *entity.Bid) string {
	s := fmt.Sprintf("%s → %s   |   %s %s", rfq.OriginPort, rfq.DestinationPort, strings.ToUpper(rfq.Mode), rfq.LoadType)
	if rfq.Incoterm != "" {
		s += "   |   " + rfq.Incoterm
	}
	if bid.TransitDays > 0 {
		s += fmt.Sprintf("   |   Tránsito estimado: %d días", bid.TransitDays)
	}
	return s
}

func cargoSummary(rfq *entity.RFQ) string {
	parts := []string{rfq.Commodity}
	if rfq.Containers > 0 {
		parts = append(parts, fmt.Sprintf("%d contenedor(es)", rfq.Containers))
	}
	if rfq.Packages > 0 {
		parts = append(parts, fmt.Sprintf("%d bultos", rfq.Packages))
	}
	if rfq.WeightKg.IsPositive() {
		parts = append(parts, rfq.WeightKg.String()+" kg")
	}
	if rfq.VolumeCBM.IsPositive() {
		parts = append(parts, rfq.VolumeCBM.String()+" m³")
	}
	return strings.Join(parts, "   |   ") + "   |   Listo: " + rfq.ReadyDate.Format("02/01/2006")
}
