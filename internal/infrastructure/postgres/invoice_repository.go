package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, customer_id, shipment_id, prefix, number, currency, issue_date,
	due_date, net_total, tax_total, grand_total, status, document_hash, paid_at, notes, created_at, updated_at`

var invoiceSort = map[string]string{
	"number":      "number",
	"issue_date":  "issue_date",
	"due_date":    "due_date",
	"grand_total": "grand_total",
	"created_at":  "created_at",
}

func scanInvoice(row interface{ Scan(...any) error }) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := row.Scan(&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.ShipmentID, &inv.Prefix, &inv.Number,
		&inv.Currency, &inv.IssueDate, &inv.DueDate, &inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.Status,
		&inv.DocumentHash, &inv.PaidAt, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.CustomerID, invoice.ShipmentID, invoice.Prefix, invoice.Number,
		invoice.Currency, invoice.IssueDate, invoice.DueDate, invoice.NetTotal, invoice.TaxTotal,
		invoice.GrandTotal, invoice.Status, invoice.DocumentHash, invoice.PaidAt, invoice.Notes,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle.
func (r *InvoiceRepo) CreateDetail(ctx context.Context, detail *entity.InvoiceDetail) error {
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_details (id, invoice_id, price_component_id, description, quantity, unit_price, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		detail.ID, detail.InvoiceID, nullString(detail.PriceComponentID), detail.Description, detail.Quantity,
		detail.UnitPrice, detail.TaxRate, detail.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice detail: %w", err)
	}
	return nil
}

// Update actualiza estado, fechas, totales y hash.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET status        = $2,
		    issue_date    = $3,
		    due_date      = $4,
		    net_total     = $5,
		    tax_total     = $6,
		    grand_total   = $7,
		    document_hash = $8,
		    paid_at       = $9,
		    notes         = $10,
		    updated_at    = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Status, invoice.IssueDate, invoice.DueDate, invoice.NetTotal, invoice.TaxTotal,
		invoice.GrandTotal, invoice.DocumentHash, invoice.PaidAt, invoice.Notes, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera de la factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetDetailsByInvoiceID devuelve las líneas de la factura.
func (r *InvoiceRepo) GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, price_component_id, description, quantity, unit_price, tax_rate, subtotal
		  FROM invoice_details WHERE invoice_id = $1 ORDER BY description`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice details: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceDetail
	for rows.Next() {
		var d entity.InvoiceDetail
		var componentID *string
		if err := rows.Scan(&d.ID, &d.InvoiceID, &componentID, &d.Description, &d.Quantity, &d.UnitPrice,
			&d.TaxRate, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan invoice detail: %w", err)
		}
		d.PriceComponentID = derefString(componentID)
		list = append(list, &d)
	}
	return list, rows.Err()
}

// List lista facturas con filtros de estado, cliente, búsqueda y rango de emisión.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	b := newListBuilder(invoiceSort, "created_at").
		eq("company_id", companyID).
		eqIf("status", f.Status).
		eqIf("customer_id", f.CustomerID).
		search(f.Search, "number", "notes").
		dateRange("issue_date", f)
	if f.HideDrafts {
		b.raw("status <> 'DRAFT'")
	}

	cq, cargs := b.countQuery("invoices")
	var total int
	if err := r.q.QueryRow(ctx, cq, cargs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	sq, sargs := b.selectQuery(invoiceColumns, "invoices", f)
	rows, err := r.q.Query(ctx, sq, sargs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// MarkOverdue pasa a OVERDUE las facturas emitidas con vencimiento anterior a now.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE invoices SET status = 'OVERDUE', updated_at = $1
		 WHERE status = 'ISSUED' AND due_date < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", err)
	}
	return cmd.RowsAffected(), nil
}
