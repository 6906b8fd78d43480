package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceExtraItem línea adicional fuera de la oferta (demoras, almacenaje...).
type InvoiceExtraItem struct {
	PriceComponentID string          `json:"price_component_id,omitempty"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Taxable          bool            `json:"taxable"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	ShipmentID string             `json:"shipment_id"`
	Currency   string             `json:"currency,omitempty"` // vacío => moneda de la oferta
	Notes      string             `json:"notes,omitempty"`
	ExtraItems []InvoiceExtraItem `json:"extra_items,omitempty"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID           string                  `json:"id"`
	CompanyID    string                  `json:"company_id"`
	CustomerID   string                  `json:"customer_id"`
	CustomerName string                  `json:"customer_name,omitempty"`
	ShipmentID   string                  `json:"shipment_id"`
	Prefix       string                  `json:"prefix"`
	Number       string                  `json:"number"`
	Currency     string                  `json:"currency"`
	IssueDate    *time.Time              `json:"issue_date,omitempty"`
	DueDate      *time.Time              `json:"due_date,omitempty"`
	NetTotal     decimal.Decimal         `json:"net_total"`
	TaxTotal     decimal.Decimal         `json:"tax_total"`
	GrandTotal   decimal.Decimal         `json:"grand_total"`
	Status       string                  `json:"status"`
	DocumentHash string                  `json:"document_hash,omitempty"`
	PaidAt       *time.Time              `json:"paid_at,omitempty"`
	Notes        string                  `json:"notes,omitempty"`
	Details      []InvoiceDetailResponse `json:"details,omitempty"`
}

// InvoiceDetailResponse línea de detalle en la respuesta.
type InvoiceDetailResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
