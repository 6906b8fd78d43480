package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de transporte.
const (
	ModeSea  = "sea"
	ModeAir  = "air"
	ModeLand = "land"
)

// Tipos de carga.
const (
	LoadFCL = "FCL"
	LoadLCL = "LCL"
	LoadFTL = "FTL"
	LoadLTL = "LTL"
	LoadAir = "AIR"
)

// ValidModeLoad valida la combinación modo/tipo de carga.
func ValidModeLoad(mode, load string) bool {
	switch mode {
	case ModeSea:
		return load == LoadFCL || load == LoadLCL
	case ModeAir:
		return load == LoadAir
	case ModeLand:
		return load == LoadFTL || load == LoadLTL
	}
	return false
}

// Estados de un RFQ.
const (
	RFQStatusDraft     = "DRAFT"
	RFQStatusSubmitted = "SUBMITTED"
	RFQStatusQuoted    = "QUOTED"
	RFQStatusAccepted  = "ACCEPTED"
	RFQStatusRejected  = "REJECTED"
	RFQStatusExpired   = "EXPIRED"
	RFQStatusCancelled = "CANCELLED"
)

var rfqTransitions = map[string][]string{
	RFQStatusDraft:     {RFQStatusSubmitted, RFQStatusCancelled},
	RFQStatusSubmitted: {RFQStatusQuoted, RFQStatusRejected, RFQStatusExpired, RFQStatusCancelled},
	RFQStatusQuoted:    {RFQStatusQuoted, RFQStatusAccepted, RFQStatusRejected, RFQStatusExpired, RFQStatusCancelled},
}

// RFQCanTransition informa si el RFQ puede pasar de from a to.
func RFQCanTransition(from, to string) bool {
	for _, s := range rfqTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// RFQ solicitud de cotización de flete levantada por (o para) un cliente.
type RFQ struct {
	ID              string
	CompanyID       string
	CustomerID      string
	Number          string
	Mode            string
	LoadType        string
	OriginPort      string
	DestinationPort string
	Commodity       string
	Incoterm        string
	Containers      int
	Packages        int
	WeightKg        decimal.Decimal
	VolumeCBM       decimal.Decimal
	ReadyDate       time.Time
	ValidUntil      time.Time
	Status          string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen informa si el RFQ admite ofertas.
func (r *RFQ) IsOpen() bool {
	return r.Status == RFQStatusSubmitted || r.Status == RFQStatusQuoted
}
