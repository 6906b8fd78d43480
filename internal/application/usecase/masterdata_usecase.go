package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/pricing"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var locodeRe = regexp.MustCompile(`^[A-Z]{2}[A-Z2-9]{3}$`)

// MasterDataUseCase catálogos: puertos, monedas y componentes de precio.
// Los puertos y componentes compartidos se filtran por la afiliación de la empresa.
type MasterDataUseCase struct {
	companies  repository.CompanyRepository
	ports      repository.PortRepository
	currencies repository.CurrencyRepository
	components repository.PriceComponentRepository
	now        func() time.Time
}

// NewMasterDataUseCase construye el caso de uso de catálogos.
func NewMasterDataUseCase(
	companies repository.CompanyRepository,
	ports repository.PortRepository,
	currencies repository.CurrencyRepository,
	components repository.PriceComponentRepository,
) *MasterDataUseCase {
	return &MasterDataUseCase{companies: companies, ports: ports, currencies: currencies, components: components, now: time.Now}
}

// Viewer resuelve la afiliación de la empresa que consulta.
func (uc *MasterDataUseCase) Viewer(companyID string) (affiliation.Viewer, error) {
	c, err := uc.companies.GetByID(companyID)
	if err != nil {
		return affiliation.Viewer{}, err
	}
	if c == nil {
		return affiliation.Viewer{}, domain.ErrNotFound
	}
	return affiliation.ViewerOf(c), nil
}

// ─── Puertos ─────────────────────────────────────────────────────────────────

func (uc *MasterDataUseCase) ListPorts(ctx context.Context, companyID string, f repository.PortFilter) (*dto.ListResponse[dto.PortResponse], error) {
	v, err := uc.Viewer(companyID)
	if err != nil {
		return nil, err
	}
	f.Kind = strings.ToLower(f.Kind)
	f.Country = strings.ToUpper(f.Country)
	list, total, err := uc.ports.List(ctx, v, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PortResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toPortResponse(p))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

// GetPort devuelve el puerto si es visible para la empresa.
func (uc *MasterDataUseCase) GetPort(ctx context.Context, companyID, code string) (*dto.PortResponse, error) {
	p, err := uc.visiblePort(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	out := toPortResponse(p)
	return &out, nil
}

// CreatePort crea un puerto propio del tenant.
func (uc *MasterDataUseCase) CreatePort(ctx context.Context, companyID string, in dto.PortRequest) (*dto.PortResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if !locodeRe.MatchString(code) {
		return nil, fmt.Errorf("%w: code debe ser un UN/LOCODE de 5 caracteres", domain.ErrInvalidInput)
	}
	kind := strings.ToLower(in.Kind)
	if kind != entity.PortSea && kind != entity.PortAir && kind != entity.PortInland {
		return nil, fmt.Errorf("%w: kind %q no válido", domain.ErrInvalidInput, in.Kind)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	owner := companyID
	p := &entity.Port{
		Code:           code,
		Name:           strings.TrimSpace(in.Name),
		Country:        code[:2],
		Kind:           kind,
		OwnerCompanyID: &owner,
		CreatedAt:      uc.now(),
	}
	if err := uc.ports.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toPortResponse(p)
	return &out, nil
}

func (uc *MasterDataUseCase) visiblePort(ctx context.Context, companyID, code string) (*entity.Port, error) {
	v, err := uc.Viewer(companyID)
	if err != nil {
		return nil, err
	}
	p, err := uc.ports.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}
	if p == nil || !affiliation.Visible(p.OwnerCompanyID, p.Affiliation, v) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ─── Monedas ─────────────────────────────────────────────────────────────────

func (uc *MasterDataUseCase) ListCurrencies(ctx context.Context) ([]dto.CurrencyResponse, error) {
	list, err := uc.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CurrencyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCurrencyResponse(c))
	}
	return out, nil
}

// UpsertCurrencyRate crea o actualiza la tasa de una moneda ISO 4217.
// La moneda base siempre vale 1.
func (uc *MasterDataUseCase) UpsertCurrencyRate(ctx context.Context, code string, in dto.CurrencyRateRequest) (*dto.CurrencyResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !pricing.ValidCurrency(code) {
		return nil, fmt.Errorf("%w: moneda %q no es ISO 4217", domain.ErrInvalidInput, code)
	}
	if !in.RateToBase.IsPositive() {
		return nil, fmt.Errorf("%w: rate_to_base debe ser positiva", domain.ErrInvalidInput)
	}
	if code == pricing.BaseCurrency && !in.RateToBase.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: la tasa de %s es siempre 1", domain.ErrInvalidInput, pricing.BaseCurrency)
	}
	existing, err := uc.currencies.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	c := &entity.Currency{Code: code, Name: in.Name, Symbol: in.Symbol}
	if existing != nil {
		c = existing
		if in.Name != "" {
			c.Name = in.Name
		}
		if in.Symbol != "" {
			c.Symbol = in.Symbol
		}
	}
	if c.Name == "" {
		c.Name = code
	}
	c.RateToBase = in.RateToBase
	c.UpdatedAt = uc.now()
	if err := uc.currencies.Upsert(ctx, c); err != nil {
		return nil, err
	}
	out := toCurrencyResponse(c)
	return &out, nil
}

// Rates devuelve las tasas vigentes para pricing.Convert.
func (uc *MasterDataUseCase) Rates(ctx context.Context) (pricing.Rates, error) {
	list, err := uc.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	rates := make(pricing.Rates, len(list))
	for _, c := range list {
		rates[c.Code] = c.RateToBase
	}
	return rates, nil
}

// ─── Componentes de precio ───────────────────────────────────────────────────

// ListPriceComponents f.Status acepta "active" o "inactive".
func (uc *MasterDataUseCase) ListPriceComponents(ctx context.Context, companyID string, f repository.ListFilter) (*dto.ListResponse[dto.PriceComponentResponse], error) {
	v, err := uc.Viewer(companyID)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.components.List(ctx, v, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceComponentResponse, 0, len(list))
	for _, pc := range list {
		items = append(items, toPriceComponentResponse(pc))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

func (uc *MasterDataUseCase) CreatePriceComponent(ctx context.Context, companyID string, in dto.PriceComponentRequest) (*dto.PriceComponentResponse, error) {
	if err := validatePriceComponent(&in); err != nil {
		return nil, err
	}
	owner := companyID
	now := uc.now()
	pc := &entity.PriceComponent{
		ID:             uuid.New().String(),
		OwnerCompanyID: &owner,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	applyPriceComponent(pc, in)
	if err := uc.components.Create(ctx, pc); err != nil {
		return nil, err
	}
	out := toPriceComponentResponse(pc)
	return &out, nil
}

// UpdatePriceComponent solo el dueño puede modificar; los compartidos devuelven ErrForbidden.
func (uc *MasterDataUseCase) UpdatePriceComponent(ctx context.Context, companyID, id string, in dto.PriceComponentRequest) (*dto.PriceComponentResponse, error) {
	pc, err := uc.ownedComponent(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := validatePriceComponent(&in); err != nil {
		return nil, err
	}
	applyPriceComponent(pc, in)
	pc.UpdatedAt = uc.now()
	if err := uc.components.Update(ctx, pc); err != nil {
		return nil, err
	}
	out := toPriceComponentResponse(pc)
	return &out, nil
}

func (uc *MasterDataUseCase) DeactivatePriceComponent(ctx context.Context, companyID, id string) error {
	pc, err := uc.ownedComponent(ctx, companyID, id)
	if err != nil {
		return err
	}
	pc.Active = false
	pc.UpdatedAt = uc.now()
	return uc.components.Update(ctx, pc)
}

// VisibleComponent devuelve el componente si la empresa puede usarlo en una oferta.
func (uc *MasterDataUseCase) VisibleComponent(ctx context.Context, v affiliation.Viewer, id string) (*entity.PriceComponent, error) {
	pc, err := uc.components.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pc == nil || !affiliation.Visible(pc.OwnerCompanyID, pc.Affiliation, v) {
		return nil, domain.ErrNotFound
	}
	return pc, nil
}

func (uc *MasterDataUseCase) ownedComponent(ctx context.Context, companyID, id string) (*entity.PriceComponent, error) {
	v, err := uc.Viewer(companyID)
	if err != nil {
		return nil, err
	}
	pc, err := uc.VisibleComponent(ctx, v, id)
	if err != nil {
		return nil, err
	}
	if !pc.OwnedBy(companyID) {
		return nil, fmt.Errorf("%w: el componente es compartido", domain.ErrForbidden)
	}
	return pc, nil
}

func validatePriceComponent(in *dto.PriceComponentRequest) error {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.DefaultCurrency = strings.ToUpper(in.DefaultCurrency)
	if in.Code == "" || in.Name == "" {
		return fmt.Errorf("%w: code y name son requeridos", domain.ErrInvalidInput)
	}
	if !entity.ValidBasis(in.Basis) {
		return fmt.Errorf("%w: basis %q no válida", domain.ErrInvalidInput, in.Basis)
	}
	if in.DefaultCurrency == "" {
		in.DefaultCurrency = pricing.BaseCurrency
	}
	if !pricing.ValidCurrency(in.DefaultCurrency) {
		return fmt.Errorf("%w: moneda %q no válida", domain.ErrInvalidInput, in.DefaultCurrency)
	}
	return nil
}

func applyPriceComponent(pc *entity.PriceComponent, in dto.PriceComponentRequest) {
	pc.Code = in.Code
	pc.Name = in.Name
	pc.Basis = in.Basis
	pc.Taxable = in.Taxable
	pc.DefaultCurrency = in.DefaultCurrency
}

func toPortResponse(p *entity.Port) dto.PortResponse {
	return dto.PortResponse{Code: p.Code, Name: p.Name, Country: p.Country, Kind: p.Kind, Shared: p.OwnerCompanyID == nil}
}

func toCurrencyResponse(c *entity.Currency) dto.CurrencyResponse {
	return dto.CurrencyResponse{Code: c.Code, Name: c.Name, Symbol: c.Symbol, RateToBase: c.RateToBase, UpdatedAt: c.UpdatedAt}
}

func toPriceComponentResponse(pc *entity.PriceComponent) dto.PriceComponentResponse {
	return dto.PriceComponentResponse{
		ID:              pc.ID,
		Code:            pc.Code,
		Name:            pc.Name,
		Basis:           pc.Basis,
		Taxable:         pc.Taxable,
		DefaultCurrency: pc.DefaultCurrency,
		Active:          pc.Active,
		Shared:          pc.OwnerCompanyID == nil,
	}
}
