package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OTIFCounts conteos de embarques entregados por resultado OTIF.
type OTIFCounts struct {
	Delivered int
	OnTime    int
	InFull    int
	OTIF      int
	AtRisk    int
}

// RFQCounts conteos de RFQs del período.
type RFQCounts struct {
	Total    int
	Accepted int
	Decided  int // ACCEPTED + REJECTED + EXPIRED
}

// CurrencyAmount monto agregado por moneda.
type CurrencyAmount struct {
	Currency string
	Amount   decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard.
type AnalyticsRepository interface {
	GetOTIFCounts(ctx context.Context, companyID string, from, to time.Time) (OTIFCounts, error)
	GetRFQCounts(ctx context.Context, companyID string, from, to time.Time) (RFQCounts, error)
	// GetRevenue suma GrandTotal de facturas ISSUED/PAID/OVERDUE emitidas en el período.
	GetRevenue(ctx context.Context, companyID string, from, to time.Time) ([]CurrencyAmount, error)
	// GetReceivables suma lo pendiente de cobro vencido (OVERDUE) a la fecha.
	GetOverdueReceivables(ctx context.Context, companyID string) ([]CurrencyAmount, error)
}
