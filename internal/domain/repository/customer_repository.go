package repository

import "github.com/jhoicas/Freight-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error)
	ListByCompany(companyID string, f ListFilter) ([]*entity.Customer, int, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
