package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una oferta.
const (
	BidStatusDraft     = "DRAFT"
	BidStatusSent      = "SENT"
	BidStatusAccepted  = "ACCEPTED"
	BidStatusRejected  = "REJECTED"
	BidStatusExpired   = "EXPIRED"
	BidStatusCancelled = "CANCELLED"
)

// Bid oferta de precio del freight forwarder en respuesta a un RFQ.
type Bid struct {
	ID          string
	CompanyID   string
	RFQID       string
	VendorID    *string
	Number      string
	Currency    string
	Items       []BidItem
	Subtotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	Total       decimal.Decimal
	ValidUntil  time.Time
	TransitDays int
	Status      string
	Remarks     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsExpiredAt informa si la vigencia de la oferta terminó.
func (b *Bid) IsExpiredAt(now time.Time) bool {
	return !b.ValidUntil.IsZero() && now.After(b.ValidUntil)
}

// BidItem línea de la oferta (un componente de precio).
type BidItem struct {
	ID               string
	BidID            string
	PriceComponentID string
	Description      string
	Basis            string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	TaxRate          decimal.Decimal // fracción (0.19)
	Amount           decimal.Decimal // Quantity * UnitPrice, 2 decimales
}
