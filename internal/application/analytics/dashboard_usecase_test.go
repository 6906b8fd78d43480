package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
	"github.com/jhoicas/Freight-api/internal/testutil/memstore"
)

var now = time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)

func at(days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	shipments := []entity.Shipment{
		{ID: "s1", CompanyID: "co", Status: otif.StatusDelivered, DeliveredAt: at(3), OTIFResult: otif.ResultMet},
		{ID: "s2", CompanyID: "co", Status: otif.StatusDelivered, DeliveredAt: at(5), OTIFResult: otif.ResultLate},
		{ID: "s3", CompanyID: "co", Status: otif.StatusDelivered, DeliveredAt: at(8), OTIFResult: otif.ResultShort},
		{ID: "s4", CompanyID: "co", Status: otif.StatusDelivered, DeliveredAt: at(9), OTIFResult: otif.ResultMet},
		{ID: "s5", CompanyID: "co", Status: otif.StatusDelivered, DeliveredAt: at(90), OTIFResult: otif.ResultMet},
		{ID: "s6", CompanyID: "co", Status: otif.StatusInTransit, OTIFResult: otif.ResultAtRisk},
		{ID: "s7", CompanyID: "otra", Status: otif.StatusDelivered, DeliveredAt: at(2), OTIFResult: otif.ResultLateShort},
	}
	for _, sh := range shipments {
		sh := sh
		require.NoError(t, s.Shipments().Create(ctx, &sh))
	}
	for i, st := range []string{entity.RFQStatusAccepted, entity.RFQStatusRejected, entity.RFQStatusExpired, entity.RFQStatusSubmitted} {
		require.NoError(t, s.RFQs().Create(ctx, &entity.RFQ{ID: string(rune('a' + i)), CompanyID: "co", Status: st, CreatedAt: *at(4)}))
	}
	for _, inv := range []entity.Invoice{
		{ID: "i1", CompanyID: "co", Currency: "USD", Status: entity.InvoiceStatusPaid, IssueDate: at(4), GrandTotal: decimal.RequireFromString("1000.50")},
		{ID: "i2", CompanyID: "co", Currency: "USD", Status: entity.InvoiceStatusOverdue, IssueDate: at(10), GrandTotal: decimal.NewFromInt(200)},
		{ID: "i3", CompanyID: "co", Currency: "COP", Status: entity.InvoiceStatusIssued, IssueDate: at(1), GrandTotal: decimal.NewFromInt(4000000)},
		{ID: "i4", CompanyID: "co", Currency: "USD", Status: entity.InvoiceStatusDraft, GrandTotal: decimal.NewFromInt(999)},
		{ID: "i5", CompanyID: "co", Currency: "USD", Status: entity.InvoiceStatusVoid, IssueDate: at(2), GrandTotal: decimal.NewFromInt(50)},
	} {
		inv := inv
		require.NoError(t, s.Invoices().Create(ctx, &inv))
	}
	return s
}

func TestGetDashboard_KPIs(t *testing.T) {
	uc := NewDashboardUseCase(seed(t).Analytics())
	uc.now = func() time.Time { return now }

	got, err := uc.GetDashboard(context.Background(), "co", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "2026-05-01", got.From)
	assert.Equal(t, "2026-05-31", got.To)
	assert.Equal(t, 4, got.OTIF.Delivered)
	assert.Equal(t, "75", got.OTIF.OnTimePct.String())
	assert.Equal(t, "75", got.OTIF.InFullPct.String())
	assert.Equal(t, "50", got.OTIF.OTIFPct.String())
	assert.Equal(t, 1, got.OTIF.AtRisk)

	assert.Equal(t, 4, got.RFQs)
	assert.Equal(t, "33.33", got.ConversionRatePct.String())

	require.Len(t, got.Revenue, 2)
	assert.Equal(t, "COP", got.Revenue[0].Currency)
	assert.Equal(t, "USD", got.Revenue[1].Currency)
	assert.Equal(t, "1200.5", got.Revenue[1].Amount.String())
	require.Len(t, got.OverdueReceivables, 1)
	assert.Equal(t, "200", got.OverdueReceivables[0].Amount.String())
}

func TestGetDashboard_SinDatos(t *testing.T) {
	uc := NewDashboardUseCase(memstore.New().Analytics())
	got, err := uc.GetDashboard(context.Background(), "co", nil, nil)
	require.NoError(t, err)
	assert.True(t, got.OTIF.OTIFPct.IsZero())
	assert.True(t, got.ConversionRatePct.IsZero())
	assert.NotNil(t, got.Revenue)
}

func TestGetDashboard_RangoInvalido(t *testing.T) {
	uc := NewDashboardUseCase(memstore.New().Analytics())
	_, err := uc.GetDashboard(context.Background(), "co", at(1), at(5))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingRepo struct{ repository.AnalyticsRepository }

func (failingRepo) GetRevenue(context.Context, string, time.Time, time.Time) ([]repository.CurrencyAmount, error) {
	return nil, errors.New("timeout")
}

func TestGetDashboard_PropagaError(t *testing.T) {
	uc := NewDashboardUseCase(failingRepo{memstore.New().Analytics()})
	_, err := uc.GetDashboard(context.Background(), "co", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facturación")
}
