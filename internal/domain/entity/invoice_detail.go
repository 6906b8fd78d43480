package entity

import "github.com/shopspring/decimal"

// InvoiceDetail representa una línea de factura.
type InvoiceDetail struct {
	ID               string
	InvoiceID        string
	PriceComponentID string
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	TaxRate          decimal.Decimal
	Subtotal         decimal.Decimal
}
