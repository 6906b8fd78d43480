package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/pricing"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// Deps dependencias de facturación.
type Deps struct {
	Invoices   repository.InvoiceRepository
	Shipments  repository.ShipmentRepository
	Bids       repository.BidRepository
	Customers  repository.CustomerRepository
	Companies  repository.CompanyRepository
	Currencies repository.CurrencyRepository
	Tx         TxRunner
	PDFGen     InvoicePDFGenerator
	UBL        UBLExporter
	Notifier   Notifier
	Log        zerolog.Logger
}

// UseCase facturas de flete.
type UseCase struct {
	Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso de facturación.
func NewUseCase(deps Deps) *UseCase {
	return &UseCase{Deps: deps, now: time.Now}
}

// CreateFromShipment genera una factura en DRAFT copiando las líneas de la oferta aceptada
// del embarque, convertidas a la moneda de la factura, más los cargos adicionales.
func (uc *UseCase) CreateFromShipment(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	company, err := uc.company(companyID)
	if err != nil {
		return nil, err
	}
	s, err := uc.Shipments.GetByID(ctx, in.ShipmentID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.CompanyID != companyID {
		return nil, fmt.Errorf("%w: embarque no encontrado", domain.ErrNotFound)
	}
	if s.Status == otif.StatusCancelled {
		return nil, fmt.Errorf("%w: el embarque está cancelado", domain.ErrInvalidTransition)
	}
	bid, err := uc.Bids.GetByID(ctx, s.BidID)
	if err != nil {
		return nil, err
	}
	if bid == nil || bid.CompanyID != companyID {
		return nil, fmt.Errorf("%w: oferta del embarque no encontrada", domain.ErrNotFound)
	}
	customer, err := uc.customer(companyID, s.CustomerID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = bid.Currency
	}
	if !pricing.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: moneda %q no válida", domain.ErrInvalidInput, in.Currency)
	}
	rates, err := uc.rates(ctx)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: customer.ID,
		ShipmentID: s.ID,
		Prefix:     company.InvoicePrefix,
		Currency:   currency,
		Status:     entity.InvoiceStatusDraft,
		Notes:      strings.TrimSpace(in.Notes),
	}
	details := make([]*entity.InvoiceDetail, 0, len(bid.Items)+len(in.ExtraItems))
	for _, it := range bid.Items {
		unit, err := pricing.Convert(it.UnitPrice, bid.Currency, currency, rates)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		details = append(details, newDetail(inv.ID, it.PriceComponentID, it.Description, it.Quantity, unit.Round(2), it.TaxRate))
	}
	for i, x := range in.ExtraItems {
		desc := strings.TrimSpace(x.Description)
		if desc == "" {
			return nil, fmt.Errorf("%w: cargo adicional %d sin descripción", domain.ErrInvalidInput, i+1)
		}
		if !x.Quantity.IsPositive() || x.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cargo adicional %d con cantidad o precio inválido", domain.ErrInvalidInput, i+1)
		}
		rate := decimal.Zero
		if x.Taxable {
			rate = company.DefaultTaxRate
		}
		details = append(details, newDetail(inv.ID, x.PriceComponentID, desc, x.Quantity, x.UnitPrice.Round(2), rate))
	}
	totals := pricing.InvoiceTotals(details)
	inv.NetTotal, inv.TaxTotal, inv.GrandTotal = totals.Subtotal, totals.Tax, totals.Total

	err = uc.Tx.RunBilling(ctx, func(invoices repository.InvoiceRepository, seq repository.SequenceRepository) error {
		n, err := seq.Next(ctx, companyID, SeqInvoice)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("%06d", n)
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, d := range details {
			if err := invoices.CreateDetail(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.Log.Info().Str("company_id", companyID).Str("invoice", FullNumber(inv)).Str("shipment", s.Reference).Msg("billing: factura creada")
	return toResponse(inv, customer.Name, details), nil
}

func newDetail(invoiceID, componentID, desc string, qty, unit, rate decimal.Decimal) *entity.InvoiceDetail {
	return &entity.InvoiceDetail{
		ID:               uuid.New().String(),
		InvoiceID:        invoiceID,
		PriceComponentID: componentID,
		Description:      desc,
		Quantity:         qty,
		UnitPrice:        unit,
		TaxRate:          rate,
		Subtotal:         pricing.LineAmount(qty, unit),
	}
}

// Issue emite la factura: fija fechas, calcula el digest UBL y la envía al cliente.
func (uc *UseCase) Issue(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, dto.Actor{CompanyID: companyID}, id)
	if err != nil {
		return nil, err
	}
	if !entity.InvoiceCanTransition(inv.Status, entity.InvoiceStatusIssued) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, inv.Status, entity.InvoiceStatusIssued)
	}
	company, err := uc.company(companyID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customer(companyID, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	details, err := uc.Invoices.GetDetailsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	issue := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := pricing.DueDate(issue, customer.PaymentTermDays)
	inv.IssueDate, inv.DueDate = &issue, &due
	inv.Status = entity.InvoiceStatusIssued

	_, digest, err := uc.UBL.Build(inv, company, customer, details)
	if err != nil {
		return nil, fmt.Errorf("ubl: %w", err)
	}
	inv.DocumentHash = digest
	inv.UpdatedAt = now
	if err := uc.Invoices.Update(ctx, inv); err != nil {
		return nil, err
	}

	pdf, err := uc.PDFGen.GenerateInvoicePDF(ctx, inv, company, customer, details)
	if err != nil {
		uc.Log.Error().Err(err).Str("invoice", FullNumber(inv)).Msg("billing: no se pudo generar el PDF para el correo")
	}
	uc.Notifier.InvoiceIssued(ctx, company, customer, inv, pdf)
	return toResponse(inv, customer.Name, details), nil
}

// MarkPaid registra el pago de una factura ISSUED u OVERDUE.
func (uc *UseCase) MarkPaid(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, companyID, id, entity.InvoiceStatusPaid)
}

// Void anula una factura en DRAFT o ISSUED.
func (uc *UseCase) Void(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, companyID, id, entity.InvoiceStatusVoid)
}

func (uc *UseCase) transition(ctx context.Context, companyID, id, to string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, dto.Actor{CompanyID: companyID}, id)
	if err != nil {
		return nil, err
	}
	if !entity.InvoiceCanTransition(inv.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, inv.Status, to)
	}
	now := uc.now()
	inv.Status = to
	if to == entity.InvoiceStatusPaid {
		inv.PaidAt = &now
	}
	inv.UpdatedAt = now
	if err := uc.Invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return uc.respond(ctx, inv)
}

// Get devuelve la factura con su detalle.
func (uc *UseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, inv)
}

// List lista facturas. El portal solo ve las de su cliente y nunca los borradores.
func (uc *UseCase) List(ctx context.Context, actor dto.Actor, f repository.ListFilter) (*dto.ListResponse[dto.InvoiceResponse], error) {
	if actor.IsCustomer() {
		f.CustomerID = actor.CustomerID
		f.HideDrafts = true
	}
	list, total, err := uc.Invoices.List(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		name, ok := names[inv.CustomerID]
		if !ok {
			if c, err := uc.Customers.GetByID(inv.CustomerID); err == nil && c != nil {
				name = c.Name
			}
			names[inv.CustomerID] = name
		}
		items = append(items, *toResponse(inv, name, nil))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

// PDF genera la representación gráfica. Devuelve el contenido y el nombre del archivo.
func (uc *UseCase) PDF(ctx context.Context, actor dto.Actor, id string) ([]byte, string, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.company(actor.CompanyID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customer(actor.CompanyID, inv.CustomerID)
	if err != nil {
		return nil, "", err
	}
	details, err := uc.Invoices.GetDetailsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.PDFGen.GenerateInvoicePDF(ctx, inv, company, customer, details)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}
	return pdf, FullNumber(inv) + ".pdf", nil
}

// ExportUBL devuelve el XML UBL 2.1 de una factura emitida.
func (uc *UseCase) ExportUBL(ctx context.Context, companyID, id string) ([]byte, string, error) {
	inv, err := uc.load(ctx, dto.Actor{CompanyID: companyID}, id)
	if err != nil {
		return nil, "", err
	}
	if inv.Status == entity.InvoiceStatusDraft {
		return nil, "", fmt.Errorf("%w: la factura aún no ha sido emitida", domain.ErrConflict)
	}
	company, err := uc.company(companyID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customer(companyID, inv.CustomerID)
	if err != nil {
		return nil, "", err
	}
	details, err := uc.Invoices.GetDetailsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, "", err
	}
	xml, _, err := uc.UBL.Build(inv, company, customer, details)
	if err != nil {
		return nil, "", fmt.Errorf("ubl: %w", err)
	}
	return xml, FullNumber(inv) + ".xml", nil
}

// MarkOverdue pasa a OVERDUE las facturas emitidas con vencimiento cumplido.
func (uc *UseCase) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := uc.Invoices.MarkOverdue(ctx, uc.now())
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	if n > 0 {
		uc.Log.Info().Int64("invoices", n).Msg("billing: facturas vencidas")
	}
	return n, nil
}

// FullNumber número visible de la factura: prefijo y consecutivo.
func FullNumber(inv *entity.Invoice) string {
	if inv.Prefix == "" {
		return inv.Number
	}
	return inv.Prefix + "-" + inv.Number
}

func (uc *UseCase) load(ctx context.Context, actor dto.Actor, id string) (*entity.Invoice, error) {
	inv, err := uc.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != actor.CompanyID {
		return nil, fmt.Errorf("%w: factura no encontrada", domain.ErrNotFound)
	}
	if actor.IsCustomer() && (inv.CustomerID != actor.CustomerID || inv.Status == entity.InvoiceStatusDraft) {
		return nil, fmt.Errorf("%w: factura no encontrada", domain.ErrNotFound)
	}
	return inv, nil
}

func (uc *UseCase) respond(ctx context.Context, inv *entity.Invoice) (*dto.InvoiceResponse, error) {
	details, err := uc.Invoices.GetDetailsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	name := ""
	if c, err := uc.Customers.GetByID(inv.CustomerID); err == nil && c != nil {
		name = c.Name
	}
	return toResponse(inv, name, details), nil
}

func (uc *UseCase) rates(ctx context.Context) (pricing.Rates, error) {
	list, err := uc.Currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	rates := make(pricing.Rates, len(list))
	for _, c := range list {
		rates[c.Code] = c.RateToBase
	}
	return rates, nil
}

func (uc *UseCase) company(id string) (*entity.Company, error) {
	c, err := uc.Companies.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (uc *UseCase) customer(companyID, id string) (*entity.Customer, error) {
	c, err := uc.Customers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente no encontrado", domain.ErrNotFound)
	}
	return c, nil
}

func toResponse(inv *entity.Invoice, customerName string, details []*entity.InvoiceDetail) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		ShipmentID:   inv.ShipmentID,
		Prefix:       inv.Prefix,
		Number:       inv.Number,
		Currency:     inv.Currency,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		NetTotal:     inv.NetTotal,
		TaxTotal:     inv.TaxTotal,
		GrandTotal:   inv.GrandTotal,
		Status:       inv.Status,
		DocumentHash: inv.DocumentHash,
		PaidAt:       inv.PaidAt,
		Notes:        inv.Notes,
	}
	for _, d := range details {
		out.Details = append(out.Details, dto.InvoiceDetailResponse{
			ID:          d.ID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			TaxRate:     d.TaxRate,
			Subtotal:    d.Subtotal,
		})
	}
	return out
}
