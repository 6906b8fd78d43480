package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByTaxID(taxID string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	Delete(id string) error
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	SetModule(ctx context.Context, companyID, moduleName string, active bool, expiresAt *time.Time) error
	ListModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
}
