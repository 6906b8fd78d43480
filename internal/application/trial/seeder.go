// Package trial siembra datos de ejemplo en las cuentas de prueba (DUMMY) para que el
// prospecto recorra pantallas con información: clientes, proveedores, una cotización
// enviada y un embarque en tránsito.
package trial

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// QuoteFlow subconjunto del caso de uso comercial que usa la siembra.
type QuoteFlow interface {
	CreateRFQ(ctx context.Context, actor dto.Actor, in dto.CreateRFQRequest) (*dto.RFQResponse, error)
	CreateBid(ctx context.Context, actor dto.Actor, rfqID string, in dto.CreateBidRequest) (*dto.BidResponse, error)
	SendBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error)
	AcceptBid(ctx context.Context, actor dto.Actor, bidID string) (*dto.BidResponse, error)
}

// ShipmentFlow subconjunto del caso de uso de embarques.
type ShipmentFlow interface {
	RecordCarrierEvent(ctx context.Context, actor dto.Actor, id string, in dto.CarrierEventRequest) (*dto.ShipmentResponse, error)
}

// Deps dependencias de la siembra.
type Deps struct {
	Customers  repository.CustomerRepository
	Vendors    repository.VendorRepository
	Ports      repository.PortRepository
	Components repository.PriceComponentRepository
	Quotes     QuoteFlow
	Shipments  ShipmentFlow
	Log        zerolog.Logger
}

// Seeder implementa auth.TrialSeeder.
type Seeder struct {
	Deps
	now func() time.Time
}

// NewSeeder construye la siembra.
func NewSeeder(deps Deps) *Seeder {
	return &Seeder{Deps: deps, now: time.Now}
}

// Seed crea el escenario de demostración. Solo para empresas DUMMY.
func (s *Seeder) Seed(ctx context.Context, company *entity.Company, admin *entity.User) error {
	if !company.IsDummy() {
		return fmt.Errorf("%w: la siembra de prueba solo aplica a cuentas DUMMY", domain.ErrForbidden)
	}
	actor := dto.Actor{UserID: admin.ID, CompanyID: company.ID, Role: entity.RoleAdmin}
	now := s.now()

	origin, dest, err := s.ports(ctx, company)
	if err != nil {
		return err
	}

	customers := []*entity.Customer{
		{Name: "Importadora Andina S.A.S.", TaxID: "DEMO-900100", Email: "compras@andina.example", Country: "CO"},
		{Name: "Café del Pacífico Ltda.", TaxID: "DEMO-900200", Email: "logistica@cafepacifico.example", Country: "CO"},
	}
	for _, c := range customers {
		c.ID, c.CompanyID = uuid.New().String(), company.ID
		c.PaymentTermDays, c.NotifyShipments = entity.DefaultPaymentTermDays, true
		c.CreatedAt, c.UpdatedAt = now, now
		if err := s.Customers.Create(c); err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}
	}
	carrier := &entity.Vendor{Name: "Naviera Demo Line", TaxID: "DEMO-NAV", Kind: entity.VendorCarrier, Country: "PA"}
	trucker := &entity.Vendor{Name: "Transportes Demo", TaxID: "DEMO-TRK", Kind: entity.VendorTrucker, Country: "CO"}
	for _, v := range []*entity.Vendor{carrier, trucker} {
		v.ID, v.CompanyID, v.CreatedAt, v.UpdatedAt = uuid.New().String(), company.ID, now, now
		if err := s.Vendors.Create(ctx, v); err != nil {
			return fmt.Errorf("seed vendor: %w", err)
		}
	}
	components, err := s.components(ctx, company, now)
	if err != nil {
		return err
	}

	// Cotización enviada, pendiente de respuesta del cliente.
	if _, err := s.quote(ctx, actor, customers[0].ID, carrier.ID, origin, dest, components, now, now.AddDate(0, 0, 5)); err != nil {
		return err
	}
	// Cotización aceptada con su embarque ya navegando: la carga estaba lista hace tres días
	// (ETD), entró a puerto dos días antes y zarpó a tiempo.
	etd := now.AddDate(0, 0, -3).Truncate(time.Hour)
	bid, err := s.quote(ctx, actor, customers[1].ID, carrier.ID, origin, dest, components, now, etd)
	if err != nil {
		return err
	}
	accepted, err := s.Quotes.AcceptBid(ctx, actor, bid.ID)
	if err != nil {
		return fmt.Errorf("seed accept: %w", err)
	}
	track := []struct {
		code string
		at   time.Time
	}{
		{"GATE_IN", etd.AddDate(0, 0, -2)},
		{"DEPARTED", etd},
		{"TRANSSHIPMENT", now.Add(-time.Hour)},
	}
	for _, ev := range track {
		at := ev.at
		if _, err := s.Shipments.RecordCarrierEvent(ctx, actor, accepted.ShipmentID, dto.CarrierEventRequest{
			Code: ev.code, OccurredAt: &at, Location: origin, Remarks: "Datos de demostración",
		}); err != nil {
			return fmt.Errorf("seed shipment: %w", err)
		}
	}
	s.Log.Info().Str("company_id", company.ID).Msg("trial: cuenta de prueba sembrada")
	return nil
}

func (s *Seeder) quote(ctx context.Context, actor dto.Actor, customerID, vendorID, origin, dest string, components []string, now, ready time.Time) (*dto.BidResponse, error) {
	rfq, err := s.Quotes.CreateRFQ(ctx, actor, dto.CreateRFQRequest{
		CustomerID: customerID, Mode: entity.ModeSea, LoadType: entity.LoadFCL,
		OriginPort: origin, DestinationPort: dest, Commodity: "Café verde en sacos", Incoterm: "FOB",
		Containers: 1, Packages: 275, WeightKg: decimal.NewFromInt(19250), VolumeCBM: decimal.NewFromInt(28),
		ReadyDate: ready, Submit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("seed rfq: %w", err)
	}
	prices := []int64{1850, 320, 45}
	items := make([]dto.BidItemRequest, 0, len(components))
	for i, id := range components {
		items = append(items, dto.BidItemRequest{PriceComponentID: id, UnitPrice: decimal.NewFromInt(prices[i%len(prices)])})
	}
	bid, err := s.Quotes.CreateBid(ctx, actor, rfq.ID, dto.CreateBidRequest{
		VendorID: vendorID, TransitDays: 14, Remarks: "Tarifa de demostración", Items: items,
	})
	if err != nil {
		return nil, fmt.Errorf("seed bid: %w", err)
	}
	return s.Quotes.SendBid(ctx, actor, bid.ID)
}

// ports elige dos puertos marítimos visibles para la empresa.
func (s *Seeder) ports(ctx context.Context, company *entity.Company) (string, string, error) {
	list, _, err := s.Ports.List(ctx, affiliation.ViewerOf(company), repository.PortFilter{
		ListFilter: repository.ListFilter{Limit: 2}, Kind: entity.PortSea,
	})
	if err != nil {
		return "", "", err
	}
	if len(list) < 2 {
		return "", "", fmt.Errorf("%w: catálogo de puertos vacío, ejecute seed_master", domain.ErrConflict)
	}
	return list[0].Code, list[1].Code, nil
}

// components crea los conceptos de cobro propios de la cuenta de prueba.
func (s *Seeder) components(ctx context.Context, company *entity.Company, now time.Time) ([]string, error) {
	defs := []entity.PriceComponent{
		{Code: "DEMO-OFR", Name: "Flete marítimo", Basis: entity.BasisPerContainer},
		{Code: "DEMO-THC", Name: "Manejo en terminal", Basis: entity.BasisPerContainer},
		{Code: "DEMO-DOC", Name: "Emisión de BL", Basis: entity.BasisPerBL, Taxable: true},
	}
	ids := make([]string, 0, len(defs))
	for _, pc := range defs {
		pc := pc
		owner := company.ID
		pc.ID, pc.OwnerCompanyID, pc.DefaultCurrency, pc.Active = uuid.New().String(), &owner, company.DefaultCurrency, true
		pc.CreatedAt, pc.UpdatedAt = now, now
		if err := s.Components.Create(ctx, &pc); err != nil {
			return nil, fmt.Errorf("seed price component: %w", err)
		}
		ids = append(ids, pc.ID)
	}
	return ids, nil
}
