package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateScheduleRequest itinerario y datos de transporte.
type UpdateScheduleRequest struct {
	ETD          *time.Time `json:"etd,omitempty"`
	ETA          *time.Time `json:"eta,omitempty"`
	Carrier      *string    `json:"carrier,omitempty"`
	VesselVoyage *string    `json:"vessel_voyage,omitempty"`
	BLNumber     *string    `json:"bl_number,omitempty"`
}

// UpdateStatusRequest cambio manual de estado OTIF.
type UpdateStatusRequest struct {
	Status            string     `json:"status"`
	OccurredAt        *time.Time `json:"occurred_at,omitempty"`
	Location          string     `json:"location,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	DeliveredPackages *int       `json:"delivered_packages,omitempty"`
}

// CarrierEventRequest evento externo de tracking.
type CarrierEventRequest struct {
	Code              string     `json:"code"`
	OccurredAt        *time.Time `json:"occurred_at,omitempty"`
	Location          string     `json:"location,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	DeliveredPackages *int       `json:"delivered_packages,omitempty"`
}

// ShipmentResponse embarque en respuestas.
type ShipmentResponse struct {
	ID                string          `json:"id"`
	Reference         string          `json:"reference"`
	CustomerID        string          `json:"customer_id"`
	RFQID             string          `json:"rfq_id"`
	BidID             string          `json:"bid_id"`
	Mode              string          `json:"mode"`
	OriginPort        string          `json:"origin_port"`
	DestinationPort   string          `json:"destination_port"`
	Carrier           string          `json:"carrier,omitempty"`
	VesselVoyage      string          `json:"vessel_voyage,omitempty"`
	BLNumber          string          `json:"bl_number,omitempty"`
	Containers        int             `json:"containers"`
	Packages          int             `json:"packages"`
	WeightKg          decimal.Decimal `json:"weight_kg"`
	ETD               time.Time       `json:"etd"`
	ETA               time.Time       `json:"eta"`
	ATD               *time.Time      `json:"atd,omitempty"`
	ATA               *time.Time      `json:"ata,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	DeliveredPackages *int            `json:"delivered_packages,omitempty"`
	Status            string          `json:"status"`
	StatusLabel       string          `json:"status_label"`
	Progress          int             `json:"progress"`
	OTIFResult        string          `json:"otif_result"`
	NextStatuses      []string        `json:"next_statuses,omitempty"`
}

// ShipmentEventResponse hito en la línea de tiempo.
type ShipmentEventResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Label      string    `json:"label"`
	OccurredAt time.Time `json:"occurred_at"`
	Location   string    `json:"location,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	Source     string    `json:"source"`
}
