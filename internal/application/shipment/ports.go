// Package shipment gestiona los embarques: transiciones OTIF, eventos de navieras,
// itinerario y los recordatorios programados de zarpe, arribo y verificación OTIF.
package shipment

import (
	"context"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// TxRunner guarda el nuevo estado y los eventos del recorrido en una sola transacción.
type TxRunner interface {
	RunShipment(ctx context.Context, fn func(shipments repository.ShipmentRepository) error) error
}

// Notifier correos de seguimiento. Nunca falla la operación.
type Notifier interface {
	ShipmentStatus(ctx context.Context, company *entity.Company, customer *entity.Customer, s *entity.Shipment, m otif.Milestone)
	ShipmentReminder(ctx context.Context, company *entity.Company, s *entity.Shipment, kind string, at time.Time)
}

// JobScheduler agenda trabajos de una sola ejecución identificados por clave.
// Agendar una clave existente reemplaza el trabajo anterior.
type JobScheduler interface {
	ScheduleAt(key string, at time.Time, fn func(ctx context.Context)) error
	Cancel(key string)
}

// Recorder cuenta las transiciones aplicadas (métricas).
type Recorder interface {
	ShipmentTransition(status string)
}

type nopRecorder struct{}

func (nopRecorder) ShipmentTransition(string) {}
