package shipment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/application/dto"
	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
	"github.com/jhoicas/Freight-api/internal/testutil/memstore"
)

type job struct {
	at time.Time
	fn func(context.Context)
}

type fakeJobs struct{ jobs map[string]job }

func (f *fakeJobs) ScheduleAt(key string, at time.Time, fn func(context.Context)) error {
	f.jobs[key] = job{at: at, fn: fn}
	return nil
}

func (f *fakeJobs) Cancel(key string) { delete(f.jobs, key) }

type fakeNotifier struct {
	statuses  []string
	reminders []string
}

func (f *fakeNotifier) ShipmentStatus(_ context.Context, _ *entity.Company, _ *entity.Customer, _ *entity.Shipment, m otif.Milestone) {
	f.statuses = append(f.statuses, m.Status)
}

func (f *fakeNotifier) ShipmentReminder(_ context.Context, _ *entity.Company, s *entity.Shipment, kind string, _ time.Time) {
	f.reminders = append(f.reminders, kind+":"+s.Reference)
}

type countRecorder map[string]int

func (c countRecorder) ShipmentTransition(status string) { c[status]++ }

var (
	clock = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	ops   = dto.Actor{UserID: "u-ops", CompanyID: "co", Role: entity.RoleOps}
)

type fixture struct {
	store    *memstore.Store
	uc       *UseCase
	jobs     *fakeJobs
	notifier *fakeNotifier
	metrics  countRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Companies().Create(&entity.Company{ID: "co", Name: "Acme", TaxID: "1", Status: "active"}))
	require.NoError(t, store.Customers().Create(&entity.Customer{ID: "cu-1", CompanyID: "co", Name: "Importadora", TaxID: "800", Email: "imp@example.com", NotifyShipments: true}))
	f := &fixture{store: store, jobs: &fakeJobs{jobs: map[string]job{}}, notifier: &fakeNotifier{}, metrics: countRecorder{}}
	planner := NewReminderPlanner(f.jobs, store.Shipments(), store.Companies(), f.notifier, 24*time.Hour, 24*time.Hour, zerolog.Nop())
	planner.now = func() time.Time { return clock }
	f.uc = NewUseCase(Deps{
		Shipments: store.Shipments(), Companies: store.Companies(), Customers: store.Customers(), Tx: store,
		Notifier: f.notifier, Planner: planner, Metrics: f.metrics, Log: zerolog.Nop(), Tolerance: 24 * time.Hour,
	})
	f.uc.now = func() time.Time { return clock }
	return f
}

func (f *fixture) booked(t *testing.T, id string) *entity.Shipment {
	t.Helper()
	s := &entity.Shipment{
		ID: id, CompanyID: "co", CustomerID: "cu-1", Reference: "SHP-" + id, Mode: entity.ModeSea,
		OriginPort: "COCTG", DestinationPort: "USMIA", Packages: 40,
		ETD: clock.AddDate(0, 0, 3), ETA: clock.AddDate(0, 0, 10),
		Status: otif.StatusBooked, OTIFResult: otif.ResultPending, CreatedAt: clock, UpdatedAt: clock,
	}
	require.NoError(t, f.store.Shipments().Create(context.Background(), s))
	return s
}

func TestUpdateStatus_StampsDatesAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.booked(t, "s1")
	ctx := context.Background()

	_, err := f.uc.UpdateStatus(ctx, ops, "s1", dto.UpdateStatusRequest{Status: otif.StatusArrived})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	departed := clock.Add(2 * time.Hour)
	out, err := f.uc.UpdateStatus(ctx, ops, "s1", dto.UpdateStatusRequest{Status: "departed", OccurredAt: &departed, Location: "Cartagena"})
	require.NoError(t, err)
	assert.Equal(t, otif.StatusDeparted, out.Status)
	require.NotNil(t, out.ATD)
	assert.Equal(t, departed, *out.ATD)
	assert.Equal(t, []string{otif.StatusInTransit, otif.StatusArrived}, out.NextStatuses)
	assert.Equal(t, []string{otif.StatusDeparted}, f.notifier.statuses)
	assert.Equal(t, 1, f.metrics[otif.StatusDeparted])

	events, err := f.uc.ListEvents(ctx, ops, "s1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Cartagena", events[0].Location)

	_, ok := f.jobs.jobs[JobKey(JobDeparture, "s1")]
	assert.False(t, ok, "ya zarpó: no hay aviso de zarpe")
	_, ok = f.jobs.jobs[JobKey(JobArrival, "s1")]
	assert.True(t, ok)
}

func TestRecordCarrierEvent_FalloDeEventoRevierteEstado(t *testing.T) {
	f := newFixture(t)
	f.booked(t, "s1")
	ctx := context.Background()
	f.store.FailOn["shipments.AddEvent"] = assert.AnError

	at := clock.Add(time.Hour)
	_, err := f.uc.RecordCarrierEvent(ctx, ops, "s1", dto.CarrierEventRequest{Code: "TRANSSHIPMENT", OccurredAt: &at})
	require.ErrorIs(t, err, assert.AnError)

	stored, err := f.store.Shipments().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, otif.StatusBooked, stored.Status)
	assert.Nil(t, stored.ATD)
	events, err := f.store.Shipments().ListEvents(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, f.notifier.statuses)
	assert.Zero(t, f.metrics[otif.StatusDeparted])

	delete(f.store.FailOn, "shipments.AddEvent")
	out, err := f.uc.RecordCarrierEvent(ctx, ops, "s1", dto.CarrierEventRequest{Code: "TRANSSHIPMENT", OccurredAt: &at})
	require.NoError(t, err)
	assert.Equal(t, otif.StatusInTransit, out.Status)
	events, err = f.store.Shipments().ListEvents(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestUpdateStatus_DeliveredShortAndLate(t *testing.T) {
	f := newFixture(t)
	s := f.booked(t, "s1")
	s.Status = otif.StatusArrived
	require.NoError(t, f.store.Shipments().Update(context.Background(), s))

	late := s.ETA.Add(48 * time.Hour)
	out, err := f.uc.UpdateStatus(context.Background(), ops, "s1", dto.UpdateStatusRequest{
		Status: otif.StatusDelivered, OccurredAt: &late, DeliveredPackages: intPtr(38),
	})
	require.NoError(t, err)
	assert.Equal(t, otif.ResultLateShort, out.OTIFResult)
	assert.Empty(t, f.jobs.jobs, "un embarque entregado no conserva trabajos")
}

func TestRecordCarrierEvent_WalksForwardPath(t *testing.T) {
	f := newFixture(t)
	f.booked(t, "s1")
	ctx := context.Background()

	out, err := f.uc.RecordCarrierEvent(ctx, ops, "s1", dto.CarrierEventRequest{Code: "pod", Location: "Miami"})
	require.NoError(t, err)
	assert.Equal(t, otif.StatusDelivered, out.Status)
	assert.Equal(t, otif.ResultMet, out.OTIFResult)
	require.NotNil(t, out.DeliveredPackages)
	assert.Equal(t, 40, *out.DeliveredPackages)
	assert.NotNil(t, out.ATD)
	assert.NotNil(t, out.ATA)

	events, err := f.uc.ListEvents(ctx, ops, "s1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{otif.StatusDeparted, otif.StatusArrived, otif.StatusDelivered},
		[]string{events[0].Status, events[1].Status, events[2].Status})
	assert.Equal(t, entity.EventSourceCarrier, events[2].Source)
	assert.Equal(t, []string{otif.StatusDelivered}, f.notifier.statuses, "solo se avisa el último hito")
}

func TestRecordCarrierEvent_NoBackwardMoves(t *testing.T) {
	f := newFixture(t)
	s := f.booked(t, "s1")
	s.Status = otif.StatusArrived
	require.NoError(t, f.store.Shipments().Update(context.Background(), s))

	out, err := f.uc.RecordCarrierEvent(context.Background(), ops, "s1", dto.CarrierEventRequest{Code: "VESSEL_DEPARTURE"})
	require.NoError(t, err)
	assert.Equal(t, otif.StatusArrived, out.Status)

	_, err = f.uc.RecordCarrierEvent(context.Background(), ops, "s1", dto.CarrierEventRequest{Code: "UNKNOWN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanner_SchedulesAndReschedules(t *testing.T) {
	f := newFixture(t)
	s := f.booked(t, "s1")
	f.uc.ShipmentBooked(context.Background(), s)

	require.Len(t, f.jobs.jobs, 3)
	assert.Equal(t, s.ETD.Add(-24*time.Hour), f.jobs.jobs[JobKey(JobDeparture, "s1")].at)
	assert.Equal(t, s.ETA.Add(-24*time.Hour), f.jobs.jobs[JobKey(JobArrival, "s1")].at)
	assert.Equal(t, s.ETA.Add(24*time.Hour), f.jobs.jobs[JobKey(JobOTIFCheck, "s1")].at)
	assert.Equal(t, []string{otif.StatusBooked}, f.notifier.statuses)

	newETD := clock.Add(12 * time.Hour)
	newETA := clock.AddDate(0, 0, 15)
	_, err := f.uc.UpdateSchedule(context.Background(), ops, "s1", dto.UpdateScheduleRequest{ETD: &newETD, ETA: &newETA})
	require.NoError(t, err)
	_, ok := f.jobs.jobs[JobKey(JobDeparture, "s1")]
	assert.False(t, ok, "ETD - lead ya pasó")
	assert.Equal(t, newETA.Add(-24*time.Hour), f.jobs.jobs[JobKey(JobArrival, "s1")].at)

	_, err = f.uc.UpdateStatus(context.Background(), ops, "s1", dto.UpdateStatusRequest{Status: otif.StatusCancelled})
	require.NoError(t, err)
	assert.Empty(t, f.jobs.jobs)
}

func TestPlanner_JobsRun(t *testing.T) {
	f := newFixture(t)
	s := f.booked(t, "s1")
	f.uc.Planner.Plan(s)
	ctx := context.Background()

	f.jobs.jobs[JobKey(JobDeparture, "s1")].fn(ctx)
	assert.Equal(t, []string{"zarpe:SHP-s1"}, f.notifier.reminders)

	f.uc.Planner.now = func() time.Time { return s.ETA.Add(25 * time.Hour) }
	f.jobs.jobs[JobKey(JobOTIFCheck, "s1")].fn(ctx)
	got, err := f.store.Shipments().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, otif.ResultAtRisk, got.OTIFResult)
}

func TestPlanner_Rebuild(t *testing.T) {
	f := newFixture(t)
	f.booked(t, "s1")
	overdue := f.booked(t, "s2")
	overdue.ETD = clock.AddDate(0, 0, -20)
	overdue.ETA = clock.AddDate(0, 0, -5)
	require.NoError(t, f.store.Shipments().Update(context.Background(), overdue))

	n, err := f.uc.Planner.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, f.jobs.jobs, 3, "s2 no tiene trabajos futuros")

	got, err := f.store.Shipments().GetByID(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, otif.ResultAtRisk, got.OTIFResult)
}

func TestPortalScope(t *testing.T) {
	f := newFixture(t)
	f.booked(t, "s1")
	other := dto.Actor{UserID: "u", CompanyID: "co", Role: entity.RoleCustomer, CustomerID: "cu-2"}
	owner := dto.Actor{UserID: "u", CompanyID: "co", Role: entity.RoleCustomer, CustomerID: "cu-1"}

	_, err := f.uc.Get(context.Background(), other, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := f.uc.Get(context.Background(), owner, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Booked", out.StatusLabel)
	assert.Empty(t, out.NextStatuses)
}

func intPtr(v int) *int { return &v }
