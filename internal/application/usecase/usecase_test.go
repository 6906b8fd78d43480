package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/application/usecase"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
	"github.com/jhoicas/Freight-api/internal/testutil/memstore"
)

func ptr[T any](v T) *T { return &v }

func TestCompanyUseCase_CreateDefaultsAndDuplicate(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewCompanyUseCase(store.Companies())

	c, err := uc.Create(dto.CreateCompanyRequest{Name: "Acme", TaxID: "900"})
	require.NoError(t, err)
	assert.Equal(t, entity.AffiliationRegular, c.Affiliation)
	assert.Equal(t, "USD", c.DefaultCurrency)

	_, err = uc.Create(dto.CreateCompanyRequest{Name: "Acme 2", TaxID: "900"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(dto.CreateCompanyRequest{Name: "Demo", TaxID: "901", Affiliation: "dummy"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "DUMMY solo por registro de prueba")

	nle, err := uc.Create(dto.CreateCompanyRequest{Name: "Red", TaxID: "902", Affiliation: "nle", DefaultCurrency: "cop"})
	require.NoError(t, err)
	assert.Equal(t, entity.AffiliationNLE, nle.Affiliation)
	assert.Equal(t, "COP", nle.DefaultCurrency)
}

func TestCompanyUseCase_UpdateSettings(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewCompanyUseCase(store.Companies())
	c, err := uc.Create(dto.CreateCompanyRequest{Name: "Acme", TaxID: "900"})
	require.NoError(t, err)

	out, err := uc.UpdateSettings(context.Background(), c.ID, dto.UpdateCompanyRequest{
		DefaultTaxRate: ptr(decimal.NewFromInt(19)),
		InvoicePrefix:  ptr(" fx "),
	})
	require.NoError(t, err)
	assert.True(t, out.DefaultTaxRate.Equal(decimal.RequireFromString("0.19")))
	assert.Equal(t, "FX", out.InvoicePrefix)

	_, err = uc.UpdateSettings(context.Background(), c.ID, dto.UpdateCompanyRequest{DefaultCurrency: ptr("XXQ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModuleService_SetModule(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Companies().Create(&entity.Company{ID: "co", TaxID: "1", Status: "active"}))
	svc := usecase.NewModuleService(store.Companies())
	ctx := context.Background()

	_, err := svc.SetModule(ctx, "co", "crm", dto.SetModuleRequest{Active: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SetModule(ctx, "co", entity.ModuleInvoicing, dto.SetModuleRequest{Active: true, ExpiresAt: ptr(time.Now().Add(-time.Hour))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SetModule(ctx, "co", entity.ModuleInvoicing, dto.SetModuleRequest{Active: true})
	require.NoError(t, err)
	ok, err := svc.HasActiveModule(ctx, "co", entity.ModuleInvoicing)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCustomerUseCase_TenantScopeAndDefaults(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewCustomerUseCase(store.Customers())

	c, err := uc.Create("co-a", dto.CustomerRequest{Name: "Importadora", TaxID: "800", Country: "co"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPaymentTermDays, c.PaymentTermDays)
	assert.True(t, c.NotifyShipments)
	assert.Equal(t, "CO", c.Country)

	_, err = uc.Get("co-b", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "otra empresa no ve el cliente")

	_, err = uc.Create("co-a", dto.CustomerRequest{Name: "Otra", TaxID: "800"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create("co-b", dto.CustomerRequest{Name: "Misma cédula, otra empresa", TaxID: "800"})
	require.NoError(t, err)

	_, err = uc.Update("co-a", c.ID, dto.CustomerRequest{Name: "Importadora", TaxID: "800", PaymentTermDays: ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List("co-a", repository.ListFilter{Limit: 20, Search: "import"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestCustomerUseCase_ValidaNIT(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memstore.New().Customers())

	_, err := uc.Create("co-a", dto.CustomerRequest{Name: "DIAN", TaxID: "800197268-5", Country: "CO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := uc.Create("co-a", dto.CustomerRequest{Name: "DIAN", TaxID: "800197268-4", Country: "CO"})
	require.NoError(t, err)
	assert.Equal(t, "800197268-4", c.TaxID)
}

func TestVendorUseCase_ValidatesKind(t *testing.T) {
	store := memstore.New()
	uc := usecase.NewVendorUseCase(store.Vendors())
	ctx := context.Background()

	_, err := uc.Create(ctx, "co", dto.VendorRequest{Name: "Maersk", Kind: "airline"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	v, err := uc.Create(ctx, "co", dto.VendorRequest{Name: "Maersk", Kind: "Carrier"})
	require.NoError(t, err)
	assert.Equal(t, entity.VendorCarrier, v.Kind)

	assert.ErrorIs(t, uc.Delete(ctx, "other", v.ID), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, "co", v.ID))
}

func masterData(t *testing.T) (*memstore.Store, *usecase.MasterDataUseCase) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Companies().Create(&entity.Company{ID: "reg", TaxID: "1", Affiliation: entity.AffiliationRegular}))
	require.NoError(t, store.Companies().Create(&entity.Company{ID: "nle", TaxID: "2", Affiliation: entity.AffiliationNLE}))
	ctx := context.Background()
	require.NoError(t, store.Ports().Create(ctx, &entity.Port{Code: "COCTG", Name: "Cartagena", Country: "CO", Kind: entity.PortSea}))
	require.NoError(t, store.Ports().Create(ctx, &entity.Port{Code: "USMIA", Name: "Miami", Country: "US", Kind: entity.PortSea, Affiliation: entity.AffiliationNLE}))
	require.NoError(t, store.PriceComponents().Create(ctx, &entity.PriceComponent{ID: "pc-shared", Code: "OFR", Name: "Ocean freight", Basis: entity.BasisPerContainer, Active: true}))
	return store, usecase.NewMasterDataUseCase(store.Companies(), store.Ports(), store.Currencies(), store.PriceComponents())
}

func TestMasterData_PortsScopedByAffiliation(t *testing.T) {
	_, uc := masterData(t)
	ctx := context.Background()

	reg, err := uc.ListPorts(ctx, "reg", repository.PortFilter{ListFilter: repository.ListFilter{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Page.Total)

	nle, err := uc.ListPorts(ctx, "nle", repository.PortFilter{ListFilter: repository.ListFilter{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 2, nle.Page.Total)

	_, err = uc.GetPort(ctx, "reg", "usmia")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	own, err := uc.CreatePort(ctx, "reg", dto.PortRequest{Code: "cobaq", Name: "Barranquilla", Kind: "sea"})
	require.NoError(t, err)
	assert.Equal(t, "CO", own.Country)
	assert.False(t, own.Shared)

	_, err = uc.GetPort(ctx, "nle", "COBAQ")
	assert.ErrorIs(t, err, domain.ErrNotFound, "puerto propio no es visible para otros tenants")

	_, err = uc.CreatePort(ctx, "reg", dto.PortRequest{Code: "BAD", Name: "x", Kind: "sea"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMasterData_SharedComponentIsReadOnly(t *testing.T) {
	_, uc := masterData(t)
	ctx := context.Background()

	_, err := uc.UpdatePriceComponent(ctx, "reg", "pc-shared", dto.PriceComponentRequest{Code: "OFR", Name: "x", Basis: entity.BasisPerShipment})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.DeactivatePriceComponent(ctx, "reg", "pc-shared"), domain.ErrForbidden)

	own, err := uc.CreatePriceComponent(ctx, "reg", dto.PriceComponentRequest{Code: "doc", Name: "Documentación", Basis: entity.BasisPerBL, Taxable: true})
	require.NoError(t, err)
	assert.Equal(t, "DOC", own.Code)
	assert.Equal(t, "USD", own.DefaultCurrency)
	require.NoError(t, uc.DeactivatePriceComponent(ctx, "reg", own.ID))

	active, err := uc.ListPriceComponents(ctx, "reg", repository.ListFilter{Limit: 20, Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, 1, active.Page.Total)

	_, err = uc.UpdatePriceComponent(ctx, "nle", own.ID, dto.PriceComponentRequest{Code: "DOC", Name: "x", Basis: entity.BasisPerBL})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMasterData_CurrencyRates(t *testing.T) {
	_, uc := masterData(t)
	ctx := context.Background()

	_, err := uc.UpsertCurrencyRate(ctx, "ABC", dto.CurrencyRateRequest{RateToBase: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpsertCurrencyRate(ctx, "USD", dto.CurrencyRateRequest{RateToBase: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpsertCurrencyRate(ctx, "COP", dto.CurrencyRateRequest{RateToBase: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cop, err := uc.UpsertCurrencyRate(ctx, "cop", dto.CurrencyRateRequest{Name: "Peso colombiano", RateToBase: decimal.NewFromInt(4000)})
	require.NoError(t, err)
	assert.Equal(t, "COP", cop.Code)

	rates, err := uc.Rates(ctx)
	require.NoError(t, err)
	assert.True(t, rates["COP"].Equal(decimal.NewFromInt(4000)))
}
