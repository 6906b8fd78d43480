package repository

import (
	"context"

	"github.com/jhoicas/Freight-api/internal/domain/affiliation"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// PortFilter filtros del catálogo de puertos.
type PortFilter struct {
	ListFilter
	Kind    string
	Country string
}

// PortRepository catálogo UN/LOCODE (compartido + propio del tenant).
type PortRepository interface {
	Create(ctx context.Context, port *entity.Port) error
	GetByCode(ctx context.Context, code string) (*entity.Port, error)
	List(ctx context.Context, viewer affiliation.Viewer, f PortFilter) ([]*entity.Port, int, error)
}

// CurrencyRepository monedas y tasas de cambio (globales).
type CurrencyRepository interface {
	List(ctx context.Context) ([]*entity.Currency, error)
	GetByCode(ctx context.Context, code string) (*entity.Currency, error)
	Upsert(ctx context.Context, c *entity.Currency) error
}

// PriceComponentRepository conceptos de cobro.
type PriceComponentRepository interface {
	Create(ctx context.Context, pc *entity.PriceComponent) error
	GetByID(ctx context.Context, id string) (*entity.PriceComponent, error)
	List(ctx context.Context, viewer affiliation.Viewer, f ListFilter) ([]*entity.PriceComponent, int, error)
	Update(ctx context.Context, pc *entity.PriceComponent) error
}
