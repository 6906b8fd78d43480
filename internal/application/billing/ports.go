package billing

import (
	"context"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// SeqInvoice tipo de consecutivo de facturas.
const SeqInvoice = "INVOICE"

// TxRunner ejecuta la creación de la factura y su consecutivo en una transacción.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(invoices repository.InvoiceRepository, seq repository.SequenceRepository) error) error
}

// InvoicePDFGenerator puerto de renderizado de la representación gráfica.
// Si la factura está en DRAFT el PDF lleva la marca "BORRADOR".
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, company *entity.Company, customer *entity.Customer, details []*entity.InvoiceDetail) ([]byte, error)
}

// UBLExporter construye el XML UBL 2.1 de la factura y su digest canonicalizado.
type UBLExporter interface {
	Build(inv *entity.Invoice, company *entity.Company, customer *entity.Customer, details []*entity.InvoiceDetail) (xml []byte, digest string, err error)
}

// Notifier avisos al cliente. Nunca devuelve error.
type Notifier interface {
	InvoiceIssued(ctx context.Context, company *entity.Company, customer *entity.Customer, inv *entity.Invoice, pdf []byte)
}
