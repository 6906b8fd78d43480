package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRFQRequest body para POST /api/rfqs y /api/portal/rfqs.
type CreateRFQRequest struct {
	CustomerID      string          `json:"customer_id"`
	Mode            string          `json:"mode"`
	LoadType        string          `json:"load_type"`
	OriginPort      string          `json:"origin_port"`
	DestinationPort string          `json:"destination_port"`
	Commodity       string          `json:"commodity"`
	Incoterm        string          `json:"incoterm,omitempty"`
	Containers      int             `json:"containers"`
	Packages        int             `json:"packages"`
	WeightKg        decimal.Decimal `json:"weight_kg"`
	VolumeCBM       decimal.Decimal `json:"volume_cbm"`
	ReadyDate       time.Time       `json:"ready_date"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Submit          bool            `json:"submit"` // crea directamente en SUBMITTED
}

// RFQResponse RFQ en respuestas.
type RFQResponse struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	CustomerID      string          `json:"customer_id"`
	Mode            string          `json:"mode"`
	LoadType        string          `json:"load_type"`
	OriginPort      string          `json:"origin_port"`
	DestinationPort string          `json:"destination_port"`
	Commodity       string          `json:"commodity"`
	Incoterm        string          `json:"incoterm,omitempty"`
	Containers      int             `json:"containers"`
	Packages        int             `json:"packages"`
	WeightKg        decimal.Decimal `json:"weight_kg"`
	VolumeCBM       decimal.Decimal `json:"volume_cbm"`
	ReadyDate       time.Time       `json:"ready_date"`
	ValidUntil      time.Time       `json:"valid_until"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BidItemRequest línea de oferta. Quantity vacía => cantidad sugerida por la base de cobro.
type BidItemRequest struct {
	PriceComponentID string           `json:"price_component_id"`
	Description      string           `json:"description,omitempty"`
	Quantity         *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
}

// CreateBidRequest body para POST /api/rfqs/:id/bids.
type CreateBidRequest struct {
	VendorID    string           `json:"vendor_id,omitempty"`
	Currency    string           `json:"currency"`
	ValidUntil  time.Time        `json:"valid_until"`
	TransitDays int              `json:"transit_days"`
	Remarks     string           `json:"remarks,omitempty"`
	Items       []BidItemRequest `json:"items"`
}

// BidItemResponse línea de oferta en respuestas.
type BidItemResponse struct {
	ID               string          `json:"id"`
	PriceComponentID string          `json:"price_component_id"`
	Description      string          `json:"description"`
	Basis            string          `json:"basis"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Amount           decimal.Decimal `json:"amount"`
}

// BidResponse oferta en respuestas.
type BidResponse struct {
	ID          string            `json:"id"`
	RFQID       string            `json:"rfq_id"`
	Number      string            `json:"number"`
	VendorID    string            `json:"vendor_id,omitempty"`
	Currency    string            `json:"currency"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	TaxTotal    decimal.Decimal   `json:"tax_total"`
	Total       decimal.Decimal   `json:"total"`
	ValidUntil  time.Time         `json:"valid_until"`
	TransitDays int               `json:"transit_days"`
	Status      string            `json:"status"`
	Remarks     string            `json:"remarks,omitempty"`
	Items       []BidItemResponse `json:"items"`
	ShipmentID  string            `json:"shipment_id,omitempty"` // solo al aceptar
}
