package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de puerto.
const (
	PortSea    = "sea"
	PortAir    = "air"
	PortInland = "inland"
)

// Port puerto/aeropuerto identificado por UN/LOCODE (ej. COCTG, USMIA).
// Sin OwnerCompanyID es dato compartido; Affiliation limita a qué tenants se muestra.
type Port struct {
	Code           string
	Name           string
	Country        string
	Kind           string
	Affiliation    string
	OwnerCompanyID *string
	CreatedAt      time.Time
}

// Currency moneda ISO 4217 con tasa respecto a la moneda base (USD).
type Currency struct {
	Code       string
	Name       string
	Symbol     string
	RateToBase decimal.Decimal // unidades de esta moneda por 1 USD
	UpdatedAt  time.Time
}

// Bases de cobro de un componente de precio.
const (
	BasisPerShipment  = "per_shipment"
	BasisPerContainer = "per_container"
	BasisPerKg        = "per_kg"
	BasisPerCBM       = "per_cbm"
	BasisPerBL        = "per_bl"
)

// ValidBasis valida la base de cobro.
func ValidBasis(b string) bool {
	switch b {
	case BasisPerShipment, BasisPerContainer, BasisPerKg, BasisPerCBM, BasisPerBL:
		return true
	}
	return false
}

// PriceComponent concepto de cobro (flete marítimo, THC, BAF, documentación...).
type PriceComponent struct {
	ID              string
	OwnerCompanyID  *string
	Affiliation     string
	Code            string
	Name            string
	Basis           string
	Taxable         bool
	DefaultCurrency string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnedBy informa si el componente pertenece a la empresa indicada.
func (p *PriceComponent) OwnedBy(companyID string) bool {
	return p.OwnerCompanyID != nil && *p.OwnerCompanyID == companyID
}
