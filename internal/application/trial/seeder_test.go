package trial_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/application/quotation"
	"github.com/jhoicas/Freight-api/internal/application/shipment"
	"github.com/jhoicas/Freight-api/internal/application/trial"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
	"github.com/jhoicas/Freight-api/internal/testutil/memstore"
)

type silent struct{}

func (silent) RFQSubmitted(context.Context, *entity.Company, *entity.RFQ, string) {}
func (silent) QuotationSent(context.Context, *entity.Company, *entity.Customer, *entity.RFQ, *entity.Bid, []byte) {
}
func (silent) ShipmentStatus(context.Context, *entity.Company, *entity.Customer, *entity.Shipment, otif.Milestone) {
}
func (silent) ShipmentReminder(context.Context, *entity.Company, *entity.Shipment, string, time.Time) {
}
func (silent) RenderQuotation(*entity.Company, *entity.Customer, *entity.RFQ, *entity.Bid) ([]byte, error) {
	return []byte("%PDF"), nil
}

func newSeeder(t *testing.T, store *memstore.Store) *trial.Seeder {
	t.Helper()
	ctx := context.Background()
	for _, p := range []entity.Port{
		{Code: "COBUN", Name: "Buenaventura", Country: "CO", Kind: entity.PortSea},
		{Code: "PABLB", Name: "Balboa", Country: "PA", Kind: entity.PortSea},
		{Code: "USMIA", Name: "Miami", Country: "US", Kind: entity.PortAir},
	} {
		p := p
		require.NoError(t, store.Ports().Create(ctx, &p))
	}
	shipments := shipment.NewUseCase(shipment.Deps{
		Shipments: store.Shipments(), Companies: store.Companies(), Customers: store.Customers(), Tx: store,
		Notifier: silent{}, Log: zerolog.Nop(), Tolerance: 24 * time.Hour,
	})
	quotes := quotation.NewUseCase(quotation.Deps{
		RFQs: store.RFQs(), Bids: store.Bids(), Companies: store.Companies(), Customers: store.Customers(),
		Vendors: store.Vendors(), Ports: store.Ports(), Components: store.PriceComponents(),
		Tx: store, Notifier: silent{}, Renderer: silent{}, Bookings: shipments, Log: zerolog.Nop(),
	})
	return trial.NewSeeder(trial.Deps{
		Customers: store.Customers(), Vendors: store.Vendors(), Ports: store.Ports(), Components: store.PriceComponents(),
		Quotes: quotes, Shipments: shipments, Log: zerolog.Nop(),
	})
}

func dummyCompany(t *testing.T, store *memstore.Store, affiliationTag string) *entity.Company {
	t.Helper()
	ends := time.Now().AddDate(0, 0, 14)
	c := &entity.Company{
		ID: "demo", Name: "Demo Forwarding", TaxID: "TRIAL-1", Status: "active", Affiliation: affiliationTag,
		DefaultCurrency: "USD", DefaultTaxRate: decimal.RequireFromString("0.19"), InvoicePrefix: "DEMO", TrialEndsAt: &ends,
	}
	require.NoError(t, store.Companies().Create(c))
	return c
}

func TestSeed_EscenarioCompleto(t *testing.T) {
	store := memstore.New()
	seeder := newSeeder(t, store)
	company := dummyCompany(t, store, entity.AffiliationDummy)
	ctx := context.Background()

	require.NoError(t, seeder.Seed(ctx, company, &entity.User{ID: "admin", CompanyID: "demo"}))

	customers, total, err := store.Customers().ListByCompany("demo", repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, customers, 2)

	_, vendors, err := store.Vendors().ListByCompany(ctx, "demo", repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, vendors)

	_, comps, err := store.PriceComponents().List(ctx, affiliation.ViewerOf(company), repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, comps)

	rfqs, _, err := store.RFQs().List(ctx, "demo", repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rfqs, 2)
	statuses := []string{rfqs[0].Status, rfqs[1].Status}
	assert.ElementsMatch(t, []string{entity.RFQStatusQuoted, entity.RFQStatusAccepted}, statuses)

	shipments, _, err := store.Shipments().List(ctx, "demo", repository.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, otif.StatusInTransit, shipments[0].Status)
	assert.Equal(t, "COBUN", shipments[0].OriginPort)

	s := shipments[0]
	require.NotNil(t, s.ATD)
	assert.False(t, s.ATD.Before(s.ETD), "zarpe no puede ser anterior al ETD")
	assert.True(t, s.ETD.Before(time.Now()))
	assert.True(t, s.ETA.After(time.Now()))
	assert.Equal(t, otif.ResultPending, s.OTIFResult)

	events, err := store.Shipments().ListEvents(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, events, 4, "BOOKED + recorrido hasta IN_TRANSIT")
	got := make([]string, 0, len(events))
	for _, ev := range events {
		got = append(got, ev.Status)
	}
	assert.ElementsMatch(t, []string{otif.StatusBooked, otif.StatusCargoReceived, otif.StatusDeparted, otif.StatusInTransit}, got)
}

func TestSeed_SoloDummy(t *testing.T) {
	store := memstore.New()
	seeder := newSeeder(t, store)
	company := dummyCompany(t, store, entity.AffiliationRegular)

	err := seeder.Seed(context.Background(), company, &entity.User{ID: "admin", CompanyID: "demo"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSeed_SinPuertos(t *testing.T) {
	store := memstore.New()
	seeder := trial.NewSeeder(trial.Deps{
		Customers: store.Customers(), Vendors: store.Vendors(), Ports: store.Ports(), Components: store.PriceComponents(),
		Log: zerolog.Nop(),
	})
	company := dummyCompany(t, store, entity.AffiliationDummy)

	err := seeder.Seed(context.Background(), company, &entity.User{ID: "admin"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
