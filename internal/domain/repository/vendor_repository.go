package repository

import (
	"context"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	ListByCompany(ctx context.Context, companyID string, f ListFilter) ([]*entity.Vendor, int, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	Delete(ctx context.Context, id string) error
}
