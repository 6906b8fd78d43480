package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/pricing"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: time.Now}
}

// Create crea una nueva empresa. Genera ID y estado inicial. Devuelve domain.ErrDuplicate si el TaxID ya existe.
// Las cuentas DUMMY solo se crean por el registro de prueba.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	in.Name, in.TaxID = strings.TrimSpace(in.Name), strings.TrimSpace(in.TaxID)
	if in.Name == "" || in.TaxID == "" {
		return nil, fmt.Errorf("%w: name y tax_id son requeridos", domain.ErrInvalidInput)
	}
	affiliation := strings.ToUpper(in.Affiliation)
	if affiliation == "" {
		affiliation = entity.AffiliationRegular
	}
	if !entity.ValidAffiliation(affiliation) || affiliation == entity.AffiliationDummy {
		return nil, fmt.Errorf("%w: afiliación %q no permitida", domain.ErrInvalidInput, in.Affiliation)
	}
	currency := strings.ToUpper(in.DefaultCurrency)
	if currency == "" {
		currency = pricing.BaseCurrency
	}
	if !pricing.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: moneda %q no válida", domain.ErrInvalidInput, in.DefaultCurrency)
	}
	existing, err := uc.repo.GetByTaxID(in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              in.Name,
		TaxID:             in.TaxID,
		Address:           in.Address,
		Phone:             in.Phone,
		Email:             in.Email,
		Status:            "active",
		Affiliation:       affiliation,
		DefaultCurrency:   currency,
		InvoicePrefix:     "INV",
		NotificationEmail: in.Email,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company, nil), nil
}

// GetByID obtiene una empresa por ID con el estado de sus módulos.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	modules, err := uc.repo.ListModules(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company, modules), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(limit, offset int) (*dto.ListResponse[dto.CompanyResponse], error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c, nil))
	}
	return dto.NewList(items, limit, offset, len(items)), nil
}

// UpdateSettings aplica los ajustes enviados (solo campos no nulos).
func (uc *CompanyUseCase) UpdateSettings(ctx context.Context, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
		}
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if in.DefaultCurrency != nil {
		cur := strings.ToUpper(*in.DefaultCurrency)
		if !pricing.ValidCurrency(cur) {
			return nil, fmt.Errorf("%w: moneda %q no válida", domain.ErrInvalidInput, *in.DefaultCurrency)
		}
		company.DefaultCurrency = cur
	}
	if in.DefaultTaxRate != nil {
		rate := pricing.NormalizeRate(*in.DefaultTaxRate)
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: tasa de impuesto negativa", domain.ErrInvalidInput)
		}
		company.DefaultTaxRate = rate
	}
	if in.InvoicePrefix != nil {
		p := strings.ToUpper(strings.TrimSpace(*in.InvoicePrefix))
		if p == "" || len(p) > 10 {
			return nil, fmt.Errorf("%w: prefijo de factura de 1 a 10 caracteres", domain.ErrInvalidInput)
		}
		company.InvoicePrefix = p
	}
	if in.NotificationEmail != nil {
		company.NotificationEmail = strings.TrimSpace(*in.NotificationEmail)
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(company); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID)
}

func entityToCompanyResponse(c *entity.Company, modules []*entity.CompanyModule) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	out := &dto.CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		TaxID:             c.TaxID,
		Address:           c.Address,
		Phone:             c.Phone,
		Email:             c.Email,
		Status:            c.Status,
		Affiliation:       c.Affiliation,
		DefaultCurrency:   c.DefaultCurrency,
		DefaultTaxRate:    c.DefaultTaxRate,
		InvoicePrefix:     c.InvoicePrefix,
		NotificationEmail: c.NotificationEmail,
		TrialEndsAt:       c.TrialEndsAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	for _, m := range modules {
		out.Modules = append(out.Modules, dto.ModuleResponse{Module: m.ModuleName, Active: m.IsActive, ExpiresAt: m.ExpiresAt})
	}
	return out
}
