package entity

import "time"

// Tipos de proveedor.
const (
	VendorCarrier       = "carrier"
	VendorAgent         = "agent"
	VendorTrucker       = "trucker"
	VendorCustomsBroker = "customs_broker"
)

// ValidVendorKind valida el tipo de proveedor.
func ValidVendorKind(k string) bool {
	switch k {
	case VendorCarrier, VendorAgent, VendorTrucker, VendorCustomsBroker:
		return true
	}
	return false
}

// Vendor representa un proveedor (naviera, aerolínea, agente, transportista).
type Vendor struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Kind      string
	Email     string
	Phone     string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
