package shipment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// Tipos de recordatorio (también forman la clave del trabajo: "{tipo}:{shipmentID}").
const (
	JobDeparture = "departure"
	JobArrival   = "arrival"
	JobOTIFCheck = "otif-check"
)

// JobKey clave del trabajo programado para el embarque.
func JobKey(kind, shipmentID string) string {
	return kind + ":" + shipmentID
}

// ReminderPlanner mantiene los trabajos programados de cada embarque a partir de ETD/ETA:
// aviso de zarpe (ETD - Lead), aviso de arribo (ETA - Lead) y verificación OTIF
// (ETA + Tolerance). Los trabajos con hora pasada no se agendan.
type ReminderPlanner struct {
	Jobs      JobScheduler
	Shipments repository.ShipmentRepository
	Companies repository.CompanyRepository
	Notifier  Notifier
	Lead      time.Duration
	Tolerance time.Duration
	Log       zerolog.Logger
	now       func() time.Time
}

// NewReminderPlanner construye el planificador.
func NewReminderPlanner(jobs JobScheduler, shipments repository.ShipmentRepository, companies repository.CompanyRepository,
	notifier Notifier, lead, tolerance time.Duration, log zerolog.Logger) *ReminderPlanner {
	return &ReminderPlanner{
		Jobs: jobs, Shipments: shipments, Companies: companies, Notifier: notifier,
		Lead: lead, Tolerance: tolerance, Log: log, now: time.Now,
	}
}

// Plan reprograma los trabajos del embarque. Un embarque terminal queda sin trabajos.
func (p *ReminderPlanner) Plan(s *entity.Shipment) {
	p.Cancel(s.ID)
	if otif.IsTerminal(s.Status) {
		return
	}
	now := p.now()
	if !s.ETD.IsZero() && !otif.Reached(s.Status, otif.StatusDeparted) {
		p.schedule(now, JobDeparture, s.ID, s.ETD.Add(-p.Lead), p.reminder(s.ID, "zarpe", otif.StatusDeparted))
	}
	if !s.ETA.IsZero() {
		if !otif.Reached(s.Status, otif.StatusArrived) {
			p.schedule(now, JobArrival, s.ID, s.ETA.Add(-p.Lead), p.reminder(s.ID, "arribo", otif.StatusArrived))
		}
		p.schedule(now, JobOTIFCheck, s.ID, otif.DueAt(s, p.Tolerance), p.otifCheck(s.ID))
	}
}

// Cancel elimina todos los trabajos del embarque.
func (p *ReminderPlanner) Cancel(shipmentID string) {
	for _, kind := range []string{JobDeparture, JobArrival, JobOTIFCheck} {
		p.Jobs.Cancel(JobKey(kind, shipmentID))
	}
}

// Rebuild reprograma los trabajos de todos los embarques activos (arranque del proceso).
// Los embarques que ya vencieron sin entregarse se marcan AT_RISK de inmediato.
func (p *ReminderPlanner) Rebuild(ctx context.Context) (int, error) {
	list, err := p.Shipments.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range list {
		p.Plan(s)
		if otif.Evaluate(s, p.Tolerance, p.now()) == otif.ResultAtRisk && s.OTIFResult != otif.ResultAtRisk {
			p.markAtRisk(ctx, s)
		}
	}
	p.Log.Info().Int("shipments", len(list)).Msg("shipment: recordatorios reconstruidos")
	return len(list), nil
}

func (p *ReminderPlanner) schedule(now time.Time, kind, shipmentID string, at time.Time, fn func(context.Context)) {
	if !at.After(now) {
		return
	}
	key := JobKey(kind, shipmentID)
	if err := p.Jobs.ScheduleAt(key, at, fn); err != nil {
		p.Log.Error().Err(err).Str("job", key).Msg("shipment: no se pudo agendar el recordatorio")
	}
}

// reminder avisa a operaciones si el embarque todavía no alcanzó el hito esperado.
func (p *ReminderPlanner) reminder(shipmentID, kind, milestone string) func(context.Context) {
	return func(ctx context.Context) {
		s, company := p.load(ctx, shipmentID)
		if s == nil || otif.Reached(s.Status, milestone) || otif.IsTerminal(s.Status) {
			return
		}
		at := s.ETD
		if milestone == otif.StatusArrived {
			at = s.ETA
		}
		p.Notifier.ShipmentReminder(ctx, company, s, kind, at)
	}
}

func (p *ReminderPlanner) otifCheck(shipmentID string) func(context.Context) {
	return func(ctx context.Context) {
		s, _ := p.load(ctx, shipmentID)
		if s == nil {
			return
		}
		if otif.Evaluate(s, p.Tolerance, p.now()) == otif.ResultAtRisk {
			p.markAtRisk(ctx, s)
		}
	}
}

func (p *ReminderPlanner) markAtRisk(ctx context.Context, s *entity.Shipment) {
	s.OTIFResult = otif.ResultAtRisk
	s.UpdatedAt = p.now()
	if err := p.Shipments.Update(ctx, s); err != nil {
		p.Log.Error().Err(err).Str("shipment_id", s.ID).Msg("shipment: no se pudo marcar AT_RISK")
		return
	}
	p.Log.Warn().Str("company_id", s.CompanyID).Str("shipment_id", s.ID).Msg("shipment: entrega en riesgo")
}

func (p *ReminderPlanner) load(ctx context.Context, shipmentID string) (*entity.Shipment, *entity.Company) {
	s, err := p.Shipments.GetByID(ctx, shipmentID)
	if err != nil || s == nil {
		if err != nil {
			p.Log.Error().Err(err).Str("shipment_id", shipmentID).Msg("shipment: recordatorio sin embarque")
		}
		return nil, nil
	}
	company, err := p.Companies.GetByID(s.CompanyID)
	if err != nil || company == nil {
		p.Log.Error().Err(err).Str("shipment_id", shipmentID).Msg("shipment: recordatorio sin empresa")
		return nil, nil
	}
	return s, company
}
