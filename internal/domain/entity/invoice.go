package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de flete.
const (
	InvoiceStatusDraft   = "DRAFT"
	InvoiceStatusIssued  = "ISSUED"
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusOverdue = "OVERDUE"
	InvoiceStatusVoid    = "VOID"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:   {InvoiceStatusIssued, InvoiceStatusVoid},
	InvoiceStatusIssued:  {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusVoid},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
}

// InvoiceCanTransition informa si la factura puede pasar de from a to.
func InvoiceCanTransition(from, to string) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Invoice representa la cabecera de una factura emitida al cliente por un embarque.
type Invoice struct {
	ID           string
	CompanyID    string
	CustomerID   string
	ShipmentID   string
	Prefix       string
	Number       string
	Currency     string
	IssueDate    *time.Time
	DueDate      *time.Time
	NetTotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	Status       string
	DocumentHash string // SHA-256 del XML UBL canonicalizado al emitir
	PaidAt       *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
