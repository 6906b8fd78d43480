package otif

import (
	"time"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// Resultados de la evaluación OTIF.
const (
	ResultPending       = "PENDING"
	ResultAtRisk        = "AT_RISK"
	ResultMet           = "MET"
	ResultLate          = "LATE"
	ResultShort         = "SHORT"
	ResultLateShort     = "LATE_SHORT"
	ResultNotApplicable = "NOT_APPLICABLE"
)

// DueAt es el límite de entrega a tiempo: ETA más la tolerancia.
func DueAt(s *entity.Shipment, tolerance time.Duration) time.Time {
	return s.ETA.Add(tolerance)
}

// Evaluate calcula el resultado OTIF del embarque.
// A tiempo: DeliveredAt <= ETA + tolerancia. Completo: DeliveredPackages >= Packages.
func Evaluate(s *entity.Shipment, tolerance time.Duration, now time.Time) string {
	if s.Status == StatusCancelled {
		return ResultNotApplicable
	}
	due := DueAt(s, tolerance)
	if s.Status != StatusDelivered || s.DeliveredAt == nil {
		if !s.ETA.IsZero() && now.After(due) {
			return ResultAtRisk
		}
		return ResultPending
	}
	onTime := !s.DeliveredAt.After(due)
	inFull := true
	if s.DeliveredPackages != nil {
		inFull = *s.DeliveredPackages >= s.Packages
	}
	switch {
	case onTime && inFull:
		return ResultMet
	case !onTime && inFull:
		return ResultLate
	case onTime && !inFull:
		return ResultShort
	default:
		return ResultLateShort
	}
}

// OnTime e InFull desglosan el resultado para los KPIs.
func OnTime(result string) bool { return result == ResultMet || result == ResultShort }
func InFull(result string) bool { return result == ResultMet || result == ResultLate }
