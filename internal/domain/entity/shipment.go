package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment embarque creado al aceptar una oferta. Status sigue la máquina OTIF
// (ver paquete domain/otif); OTIFResult se recalcula al entregar.
type Shipment struct {
	ID                string
	CompanyID         string
	CustomerID        string
	RFQID             string
	BidID             string
	VendorID          *string
	Reference         string
	Mode              string
	OriginPort        string
	DestinationPort   string
	Carrier           string
	VesselVoyage      string
	BLNumber          string
	Containers        int
	Packages          int
	WeightKg          decimal.Decimal
	ETD               time.Time
	ETA               time.Time
	ATD               *time.Time
	ATA               *time.Time
	DeliveredAt       *time.Time
	DeliveredPackages *int
	Status            string
	OTIFResult        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Orígenes de un evento de embarque.
const (
	EventSourceManual  = "manual"
	EventSourceCarrier = "carrier"
)

// ShipmentEvent hito registrado en la línea de tiempo del embarque.
type ShipmentEvent struct {
	ID         string
	ShipmentID string
	Status     string
	OccurredAt time.Time
	Location   string
	Remarks    string
	Source     string
	CreatedBy  string
	CreatedAt  time.Time
}
