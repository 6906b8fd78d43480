package otif_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/otif"
)

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Tabla(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{otif.StatusBooked, otif.StatusCargoReceived, true},
		{otif.StatusBooked, otif.StatusDeparted, true},
		{otif.StatusBooked, otif.StatusArrived, false},
		{otif.StatusDeparted, otif.StatusCancelled, false},
		{otif.StatusArrived, otif.StatusDelivered, true},
		{otif.StatusDelivered, otif.StatusArrived, false},
		{otif.StatusCancelled, otif.StatusBooked, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, otif.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, otif.IsTerminal(otif.StatusDelivered))
	assert.True(t, otif.IsTerminal(otif.StatusCancelled))
	assert.False(t, otif.IsTerminal(otif.StatusInTransit))
	assert.Empty(t, otif.Next(otif.StatusDelivered))
}

func TestPathTo_CaminoMasCorto(t *testing.T) {
	assert.Equal(t,
		[]string{otif.StatusDeparted, otif.StatusArrived, otif.StatusDelivered},
		otif.PathTo(otif.StatusBooked, otif.StatusDelivered),
	)
	assert.Nil(t, otif.PathTo(otif.StatusArrived, otif.StatusDeparted), "no se retrocede")
	assert.Nil(t, otif.PathTo(otif.StatusArrived, otif.StatusArrived))
}

func TestReached(t *testing.T) {
	assert.True(t, otif.Reached(otif.StatusArrived, otif.StatusDeparted))
	assert.True(t, otif.Reached(otif.StatusArrived, otif.StatusArrived))
	assert.False(t, otif.Reached(otif.StatusBooked, otif.StatusArrived))
	assert.False(t, otif.Reached(otif.StatusCancelled, otif.StatusBooked))
}

func TestDescribe_SellaFechas(t *testing.T) {
	m, ok := otif.Describe(otif.StatusDeparted)
	require.True(t, ok)
	assert.Equal(t, otif.DateATD, m.Stamps)
	assert.True(t, m.NotifyCustomer)

	m, _ = otif.Describe(otif.StatusArrived)
	assert.Equal(t, otif.DateATA, m.Stamps)

	m, _ = otif.Describe(otif.StatusDelivered)
	assert.Equal(t, otif.DateDelivered, m.Stamps)
	assert.Equal(t, 100, m.Progress)

	_, ok = otif.Describe("LOST")
	assert.False(t, ok)
}

func TestFromCarrierEvent(t *testing.T) {
	s, ok := otif.FromCarrierEvent(" vessel_departure ")
	require.True(t, ok)
	assert.Equal(t, otif.StatusDeparted, s)

	s, ok = otif.FromCarrierEvent("POD")
	require.True(t, ok)
	assert.Equal(t, otif.StatusDelivered, s)

	_, ok = otif.FromCarrierEvent("XYZ")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluación OTIF
// ──────────────────────────────────────────────────────────────────────────────

func delivered(eta, at time.Time, booked, got int) *entity.Shipment {
	return &entity.Shipment{
		Status:            otif.StatusDelivered,
		ETA:               eta,
		Packages:          booked,
		DeliveredAt:       &at,
		DeliveredPackages: &got,
	}
}

func TestEvaluate(t *testing.T) {
	eta := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tol := 24 * time.Hour
	now := eta.Add(72 * time.Hour)

	assert.Equal(t, otif.ResultMet, otif.Evaluate(delivered(eta, eta.Add(23*time.Hour), 10, 10), tol, now))
	assert.Equal(t, otif.ResultLate, otif.Evaluate(delivered(eta, eta.Add(25*time.Hour), 10, 10), tol, now))
	assert.Equal(t, otif.ResultShort, otif.Evaluate(delivered(eta, eta, 10, 9), tol, now))
	assert.Equal(t, otif.ResultLateShort, otif.Evaluate(delivered(eta, eta.Add(48*time.Hour), 10, 2), tol, now))

	pending := &entity.Shipment{Status: otif.StatusInTransit, ETA: eta}
	assert.Equal(t, otif.ResultPending, otif.Evaluate(pending, tol, eta))
	assert.Equal(t, otif.ResultAtRisk, otif.Evaluate(pending, tol, now))

	cancelled := &entity.Shipment{Status: otif.StatusCancelled, ETA: eta}
	assert.Equal(t, otif.ResultNotApplicable, otif.Evaluate(cancelled, tol, now))
}

func TestOnTimeInFull(t *testing.T) {
	assert.True(t, otif.OnTime(otif.ResultShort))
	assert.False(t, otif.InFull(otif.ResultShort))
	assert.True(t, otif.InFull(otif.ResultLate))
	assert.True(t, otif.OnTime(otif.ResultMet) && otif.InFull(otif.ResultMet))
}
