package dto

import "github.com/shopspring/decimal"

// MoneyDTO monto por moneda.
type MoneyDTO struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// OTIFKPIDTO indicadores OTIF del período (porcentajes 0..100, 2 decimales).
type OTIFKPIDTO struct {
	Delivered int             `json:"delivered"`
	OnTimePct decimal.Decimal `json:"on_time_pct"`
	InFullPct decimal.Decimal `json:"in_full_pct"`
	OTIFPct   decimal.Decimal `json:"otif_pct"`
	AtRisk    int             `json:"at_risk"`
}

// DashboardSummaryDTO resumen del dashboard del forwarder.
type DashboardSummaryDTO struct {
	From               string          `json:"from"`
	To                 string          `json:"to"`
	OTIF               OTIFKPIDTO      `json:"otif"`
	RFQs               int             `json:"rfqs"`
	ConversionRatePct  decimal.Decimal `json:"conversion_rate_pct"`
	Revenue            []MoneyDTO      `json:"revenue"`
	OverdueReceivables []MoneyDTO      `json:"overdue_receivables"`
}
