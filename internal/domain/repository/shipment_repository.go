package repository

import (
	"context"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// ShipmentRepository persistencia de embarques y su línea de tiempo.
type ShipmentRepository interface {
	Create(ctx context.Context, s *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	List(ctx context.Context, companyID string, f ListFilter) ([]*entity.Shipment, int, error)
	Update(ctx context.Context, s *entity.Shipment) error
	// ListActive devuelve los embarques no terminales de todas las empresas (reconstrucción de recordatorios).
	ListActive(ctx context.Context) ([]*entity.Shipment, error)
	AddEvent(ctx context.Context, ev *entity.ShipmentEvent) error
	ListEvents(ctx context.Context, shipmentID string) ([]*entity.ShipmentEvent, error)
}
