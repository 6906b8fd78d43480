package shipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// Deps dependencias del caso de uso de embarques.
type Deps struct {
	Shipments repository.ShipmentRepository
	Companies repository.CompanyRepository
	Customers repository.CustomerRepository
	Tx        TxRunner
	Notifier  Notifier
	Planner   *ReminderPlanner
	Metrics   Recorder
	Log       zerolog.Logger
	Tolerance time.Duration
}

// UseCase seguimiento de embarques.
type UseCase struct {
	Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso de embarques.
func NewUseCase(deps Deps) *UseCase {
	if deps.Metrics == nil {
		deps.Metrics = nopRecorder{}
	}
	return &UseCase{Deps: deps, now: time.Now}
}

// Get devuelve el embarque (el portal solo ve los de su cliente).
func (uc *UseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.ShipmentResponse, error) {
	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(s, actor), nil
}

// List lista embarques con filtros de estado, cliente, búsqueda y rango de ETD.
func (uc *UseCase) List(ctx context.Context, actor dto.Actor, f repository.ListFilter) (*dto.ListResponse[dto.ShipmentResponse], error) {
	if actor.IsCustomer() {
		f.CustomerID = actor.CustomerID
	}
	list, total, err := uc.Shipments.List(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *uc.toResponse(s, actor))
	}
	return dto.NewList(items, f.Limit, f.Offset, total), nil
}

// ListEvents línea de tiempo del embarque, en orden cronológico.
func (uc *UseCase) ListEvents(ctx context.Context, actor dto.Actor, id string) ([]dto.ShipmentEventResponse, error) {
	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	events, err := uc.Shipments.ListEvents(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShipmentEventResponse, 0, len(events))
	for _, ev := range events {
		m, _ := otif.Describe(ev.Status)
		label := m.Label
		if actor.IsCustomer() {
			label = m.CustomerLabel
		}
		out = append(out, dto.ShipmentEventResponse{
			ID: ev.ID, Status: ev.Status, Label: label, OccurredAt: ev.OccurredAt,
			Location: ev.Location, Remarks: ev.Remarks, Source: ev.Source,
		})
	}
	return out, nil
}

// UpdateSchedule actualiza itinerario y datos de transporte y reprograma los recordatorios.
func (uc *UseCase) UpdateSchedule(ctx context.Context, actor dto.Actor, id string, in dto.UpdateScheduleRequest) (*dto.ShipmentResponse, error) {
	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if otif.IsTerminal(s.Status) {
		return nil, fmt.Errorf("%w: embarque %s", domain.ErrInvalidTransition, s.Status)
	}
	if in.ETD != nil {
		s.ETD = *in.ETD
	}
	if in.ETA != nil {
		s.ETA = *in.ETA
	}
	if !s.ETD.IsZero() && !s.ETA.IsZero() && s.ETA.Before(s.ETD) {
		return nil, fmt.Errorf("%w: ETA anterior a ETD", domain.ErrInvalidInput)
	}
	if in.Carrier != nil {
		s.Carrier = strings.TrimSpace(*in.Carrier)
	}
	if in.VesselVoyage != nil {
		s.VesselVoyage = strings.TrimSpace(*in.VesselVoyage)
	}
	if in.BLNumber != nil {
		s.BLNumber = strings.ToUpper(strings.TrimSpace(*in.BLNumber))
	}
	now := uc.now()
	s.OTIFResult = otif.Evaluate(s, uc.Tolerance, now)
	s.UpdatedAt = now
	if err := uc.Shipments.Update(ctx, s); err != nil {
		return nil, err
	}
	if uc.Planner != nil {
		uc.Planner.Plan(s)
	}
	return uc.toResponse(s, actor), nil
}

// UpdateStatus aplica una transición manual de estado OTIF.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor dto.Actor, id string, in dto.UpdateStatusRequest) (*dto.ShipmentResponse, error) {
	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	target := strings.ToUpper(strings.TrimSpace(in.Status))
	if !otif.Valid(target) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Status)
	}
	if !otif.CanTransition(s.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.Status, target)
	}
	step := transition{
		status: target, occurredAt: uc.occurredAt(in.OccurredAt), location: in.Location,
		remarks: in.Remarks, source: entity.EventSourceManual, deliveredPackages: in.DeliveredPackages,
	}
	if err := uc.apply(ctx, actor, s, []transition{step}); err != nil {
		return nil, err
	}
	return uc.toResponse(s, actor), nil
}

// RecordCarrierEvent traduce un evento de naviera/aerolínea a estado OTIF y avanza el embarque
// por el camino más corto hasta ese estado. No hace nada si el embarque ya está en ese hito o más adelante.
func (uc *UseCase) RecordCarrierEvent(ctx context.Context, actor dto.Actor, id string, in dto.CarrierEventRequest) (*dto.ShipmentResponse, error) {
	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	target, ok := otif.FromCarrierEvent(in.Code)
	if !ok {
		return nil, fmt.Errorf("%w: evento %q no reconocido", domain.ErrInvalidInput, in.Code)
	}
	if otif.IsTerminal(s.Status) || otif.Reached(s.Status, target) {
		uc.Log.Debug().Str("shipment_id", s.ID).Str("code", in.Code).Str("status", s.Status).Msg("shipment: evento ignorado, hito ya alcanzado")
		return uc.toResponse(s, actor), nil
	}
	path := otif.PathTo(s.Status, target)
	if path == nil {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.Status, target)
	}
	at := uc.occurredAt(in.OccurredAt)
	steps := make([]transition, 0, len(path))
	for i, st := range path {
		step := transition{status: st, occurredAt: at, source: entity.EventSourceCarrier, remarks: "Inferido de " + strings.ToUpper(in.Code)}
		if i == len(path)-1 {
			step.location, step.remarks, step.deliveredPackages = in.Location, in.Remarks, in.DeliveredPackages
		}
		steps = append(steps, step)
	}
	if err := uc.apply(ctx, actor, s, steps); err != nil {
		return nil, err
	}
	return uc.toResponse(s, actor), nil
}

// ShipmentBooked agenda los recordatorios del embarque recién creado y avisa al cliente.
func (uc *UseCase) ShipmentBooked(ctx context.Context, s *entity.Shipment) {
	uc.Metrics.ShipmentTransition(s.Status)
	if uc.Planner != nil {
		uc.Planner.Plan(s)
	}
	if m, ok := otif.Describe(s.Status); ok && m.NotifyCustomer {
		uc.notifyCustomer(ctx, s, m)
	}
}

type transition struct {
	status            string
	occurredAt        time.Time
	location          string
	remarks           string
	source            string
	deliveredPackages *int
}

func (uc *UseCase) apply(ctx context.Context, actor dto.Actor, s *entity.Shipment, steps []transition) error {
	now := uc.now()
	for _, st := range steps {
		m, _ := otif.Describe(st.status)
		at := st.occurredAt
		switch m.Stamps {
		case otif.DateATD:
			s.ATD = &at
		case otif.DateATA:
			s.ATA = &at
		case otif.DateDelivered:
			s.DeliveredAt = &at
			packages := s.Packages
			if st.deliveredPackages != nil {
				if *st.deliveredPackages < 0 {
					return fmt.Errorf("%w: delivered_packages negativo", domain.ErrInvalidInput)
				}
				packages = *st.deliveredPackages
			}
			s.DeliveredPackages = &packages
		}
		s.Status = st.status
	}
	s.OTIFResult = otif.Evaluate(s, uc.Tolerance, now)
	s.UpdatedAt = now
	err := uc.Tx.RunShipment(ctx, func(shipments repository.ShipmentRepository) error {
		if err := shipments.Update(ctx, s); err != nil {
			return err
		}
		for _, st := range steps {
			ev := &entity.ShipmentEvent{
				ID: uuid.New().String(), ShipmentID: s.ID, Status: st.status, OccurredAt: st.occurredAt,
				Location: st.location, Remarks: st.remarks, Source: st.source, CreatedBy: actor.UserID, CreatedAt: now,
			}
			if err := shipments.AddEvent(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, st := range steps {
		uc.Metrics.ShipmentTransition(st.status)
	}
	uc.Log.Info().Str("company_id", s.CompanyID).Str("shipment_id", s.ID).Str("status", s.Status).Str("otif", s.OTIFResult).Msg("shipment: estado actualizado")

	if uc.Planner != nil {
		uc.Planner.Plan(s)
	}
	// Solo se avisa el último hito notificable del recorrido.
	for i := len(steps) - 1; i >= 0; i-- {
		if m, _ := otif.Describe(steps[i].status); m.NotifyCustomer {
			uc.notifyCustomer(ctx, s, m)
			break
		}
	}
	return nil
}

func (uc *UseCase) notifyCustomer(ctx context.Context, s *entity.Shipment, m otif.Milestone) {
	customer, err := uc.Customers.GetByID(s.CustomerID)
	if err != nil || customer == nil || !customer.NotifyShipments {
		return
	}
	company, err := uc.Companies.GetByID(s.CompanyID)
	if err != nil || company == nil {
		return
	}
	uc.Notifier.ShipmentStatus(ctx, company, customer, s, m)
}

func (uc *UseCase) occurredAt(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return uc.now()
	}
	return *t
}

func (uc *UseCase) load(ctx context.Context, actor dto.Actor, id string) (*entity.Shipment, error) {
	s, err := uc.Shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if actor.IsCustomer() && s.CustomerID != actor.CustomerID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *UseCase) toResponse(s *entity.Shipment, actor dto.Actor) *dto.ShipmentResponse {
	m, _ := otif.Describe(s.Status)
	out := &dto.ShipmentResponse{
		ID: s.ID, Reference: s.Reference, CustomerID: s.CustomerID, RFQID: s.RFQID, BidID: s.BidID,
		Mode: s.Mode, OriginPort: s.OriginPort, DestinationPort: s.DestinationPort,
		Carrier: s.Carrier, VesselVoyage: s.VesselVoyage, BLNumber: s.BLNumber,
		Containers: s.Containers, Packages: s.Packages, WeightKg: s.WeightKg,
		ETD: s.ETD, ETA: s.ETA, ATD: s.ATD, ATA: s.ATA, DeliveredAt: s.DeliveredAt,
		DeliveredPackages: s.DeliveredPackages, Status: s.Status, StatusLabel: m.Label,
		Progress: m.Progress, OTIFResult: s.OTIFResult,
	}
	if actor.IsCustomer() {
		out.StatusLabel = m.CustomerLabel
	} else {
		out.NextStatuses = otif.Next(s.Status)
	}
	return out
}
