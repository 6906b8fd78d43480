// Package analytics contiene los indicadores del dashboard del forwarder:
// OTIF de las entregas, conversión de RFQs y facturación por moneda.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// DefaultWindow periodo del dashboard cuando no se indica rango.
const DefaultWindow = 30 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// DashboardUseCase genera el resumen del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetDashboard construye el DashboardSummaryDTO para la empresa y el rango indicados.
// from/to nil => últimos 30 días.
//
// Cuatro llamadas en paralelo:
//  1. GetOTIFCounts          → OTIF
//  2. GetRFQCounts           → RFQs + ConversionRatePct
//  3. GetRevenue             → Revenue
//  4. GetOverdueReceivables  → OverdueReceivables
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, companyID string, from, to *time.Time) (*dto.DashboardSummaryDTO, error) {
	end := uc.now()
	if to != nil {
		end = *to
	}
	start := end.Add(-DefaultWindow)
	if from != nil {
		start = *from
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}

	type otifResult struct {
		counts repository.OTIFCounts
		err    error
	}
	type rfqResult struct {
		counts repository.RFQCounts
		err    error
	}
	type moneyResult struct {
		amounts []repository.CurrencyAmount
		err     error
	}

	otifCh := make(chan otifResult, 1)
	rfqCh := make(chan rfqResult, 1)
	revenueCh := make(chan moneyResult, 1)
	overdueCh := make(chan moneyResult, 1)

	go func() {
		c, err := uc.analyticsRepo.GetOTIFCounts(ctx, companyID, start, end)
		otifCh <- otifResult{c, err}
	}()
	go func() {
		c, err := uc.analyticsRepo.GetRFQCounts(ctx, companyID, start, end)
		rfqCh <- rfqResult{c, err}
	}()
	go func() {
		a, err := uc.analyticsRepo.GetRevenue(ctx, companyID, start, end)
		revenueCh <- moneyResult{a, err}
	}()
	go func() {
		a, err := uc.analyticsRepo.GetOverdueReceivables(ctx, companyID)
		overdueCh <- moneyResult{a, err}
	}()

	o := <-otifCh
	r := <-rfqCh
	revenue := <-revenueCh
	overdue := <-overdueCh

	if o.err != nil {
		return nil, fmt.Errorf("dashboard: otif: %w", o.err)
	}
	if r.err != nil {
		return nil, fmt.Errorf("dashboard: rfqs: %w", r.err)
	}
	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: facturación: %w", revenue.err)
	}
	if overdue.err != nil {
		return nil, fmt.Errorf("dashboard: cartera vencida: %w", overdue.err)
	}

	return &dto.DashboardSummaryDTO{
		From: start.Format(time.DateOnly),
		To:   end.Format(time.DateOnly),
		OTIF: dto.OTIFKPIDTO{
			Delivered: o.counts.Delivered,
			OnTimePct: pct(o.counts.OnTime, o.counts.Delivered),
			InFullPct: pct(o.counts.InFull, o.counts.Delivered),
			OTIFPct:   pct(o.counts.OTIF, o.counts.Delivered),
			AtRisk:    o.counts.AtRisk,
		},
		RFQs:               r.counts.Total,
		ConversionRatePct:  pct(r.counts.Accepted, r.counts.Decided),
		Revenue:            toMoney(revenue.amounts),
		OverdueReceivables: toMoney(overdue.amounts),
	}, nil
}

// pct porcentaje 0..100 con 2 decimales; 0 si no hay base.
func pct(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))).Round(2)
}

func toMoney(in []repository.CurrencyAmount) []dto.MoneyDTO {
	out := make([]dto.MoneyDTO, 0, len(in))
	for _, a := range in {
		out = append(out, dto.MoneyDTO{Currency: a.Currency, Amount: a.Amount.Round(2)})
	}
	return out
}
