package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y detalles.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateDetail(ctx context.Context, detail *entity.InvoiceDetail) error
	// Update actualiza estado, fechas, totales y hash del documento.
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error)
	List(ctx context.Context, companyID string, f ListFilter) ([]*entity.Invoice, int, error)
	// MarkOverdue pasa a OVERDUE las facturas ISSUED con vencimiento anterior a now.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
