package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
	"github.com/jhoicas/Freight-api/pkg/taxid"
)

// CustomerUseCase casos de uso para clientes (embarcadores y consignatarios).
type CustomerUseCase struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo cliente. (company, tax_id) es único.
func (uc *CustomerUseCase) Create(companyID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	in.Name, in.TaxID = strings.TrimSpace(in.Name), strings.TrimSpace(in.TaxID)
	if in.Name == "" || in.TaxID == "" {
		return nil, fmt.Errorf("%w: name y tax_id son requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByCompanyAndTaxID(companyID, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	customer := &entity.Customer{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		PaymentTermDays: entity.DefaultPaymentTermDays,
		NotifyShipments: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := applyCustomer(customer, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente de la empresa.
func (uc *CustomerUseCase) Get(companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(companyID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes de la empresa con búsqueda y paginación.
func (uc *CustomerUseCase) List(companyID string, f repository.ListFilter) (*dto.ListResponse[dto.CustomerResponse], error) {
	list, total, err := uc.repo.ListByCompany(companyID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(companyID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(companyID, id)
	if err != nil {
		return nil, err
	}
	in.Name, in.TaxID = strings.TrimSpace(in.Name), strings.TrimSpace(in.TaxID)
	if in.Name == "" || in.TaxID == "" {
		return nil, fmt.Errorf("%w: name y tax_id son requeridos", domain.ErrInvalidInput)
	}
	if in.TaxID != c.TaxID {
		other, err := uc.repo.GetByCompanyAndTaxID(companyID, in.TaxID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if err := applyCustomer(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina el cliente. ErrConflict si tiene RFQs, embarques o facturas.
func (uc *CustomerUseCase) Delete(companyID, id string) error {
	if _, err := uc.load(companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *CustomerUseCase) load(companyID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func applyCustomer(c *entity.Customer, in dto.CustomerRequest) error {
	if in.PaymentTermDays != nil {
		if *in.PaymentTermDays < 0 {
			return fmt.Errorf("%w: payment_term_days debe ser >= 0", domain.ErrInvalidInput)
		}
		c.PaymentTermDays = *in.PaymentTermDays
	}
	if in.NotifyShipments != nil {
		c.NotifyShipments = *in.NotifyShipments
	}
	if len(in.Country) != 0 && len(in.Country) != 2 {
		return fmt.Errorf("%w: country debe ser ISO 3166 alpha-2", domain.ErrInvalidInput)
	}
	if err := taxid.Validate(in.Country, in.TaxID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	c.Name = in.Name
	c.TaxID = in.TaxID
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = in.Phone
	c.Address = in.Address
	c.Country = strings.ToUpper(in.Country)
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		TaxID:           c.TaxID,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		Country:         c.Country,
		PaymentTermDays: c.PaymentTermDays,
		NotifyShipments: c.NotifyShipments,
	}
}
